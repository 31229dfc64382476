package repos

import (
	"context"
	"errors"

	"estatehub/internal/domain"
)

var (
	// ErrNotFound is returned when no property has the given id.
	ErrNotFound = errors.New("property not found")

	// ErrInvalidID is returned for ids the backend could never have issued.
	ErrInvalidID = errors.New("malformed property id")
)

// PropertyRepo persists Property records.
type PropertyRepo interface {
	List(ctx context.Context) ([]domain.Property, error)
	Create(ctx context.Context, p domain.Property) (domain.Property, error)
	Get(ctx context.Context, id string) (domain.Property, error)
	Update(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
