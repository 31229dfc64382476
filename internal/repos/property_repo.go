package repos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"estatehub/internal/domain"
)

type SQLPropertyRepo struct{ db *sqlx.DB }

func NewSQLPropertyRepo(db *sqlx.DB) *SQLPropertyRepo { return &SQLPropertyRepo{db: db} }

const selectProperty = `SELECT id, image, description, address, price FROM properties`

func (r *SQLPropertyRepo) List(ctx context.Context) ([]domain.Property, error) {
	out := []domain.Property{}
	if err := r.db.SelectContext(ctx, &out, selectProperty+` ORDER BY created_at, rowid`); err != nil {
		return nil, errors.Wrap(err, "list properties")
	}
	return out, nil
}

func (r *SQLPropertyRepo) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	p.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO properties(id, image, description, address, price)
		VALUES(?, ?, ?, ?, ?)
	`, p.ID, nullable(p.Image), nullable(p.Description), nullable(p.Address), nullable(p.Price))
	if err != nil {
		return domain.Property{}, errors.Wrap(err, "insert property")
	}
	return p, nil
}

func (r *SQLPropertyRepo) Get(ctx context.Context, id string) (domain.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Property{}, ErrInvalidID
	}
	var p domain.Property
	err := r.db.GetContext(ctx, &p, selectProperty+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, ErrNotFound
	}
	if err != nil {
		return domain.Property{}, errors.Wrapf(err, "get property %s", id)
	}
	return p, nil
}

// Update writes only the columns present in patch.
func (r *SQLPropertyRepo) Update(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Property{}, ErrInvalidID
	}
	if patch.Empty() {
		return r.Get(ctx, id)
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if patch.Image != nil {
		sets = append(sets, "image = ?")
		args = append(args, *patch.Image)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *patch.Address)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE properties SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Property{}, errors.Wrapf(err, "update property %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Property{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *SQLPropertyRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete property %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLPropertyRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *SQLPropertyRepo) Close() error { return r.db.Close() }

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
