package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"estatehub/internal/apperr"
	"estatehub/internal/domain"
	"estatehub/internal/filestore"
	"estatehub/internal/repos"
	"estatehub/internal/validate"
)

const msgNotFound = "Property not found"

// PropertyForm is the write request as it arrives from a client. Nil means the
// field was not sent.
type PropertyForm struct {
	Description *string `form:"description"`
	Address     *string `form:"address"`
	Price       *string `form:"price" validate:"omitempty,float"`
}

// Upload is an attached image. Open is called at most once.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type PropertyService struct {
	Repo  repos.PropertyRepo
	Files filestore.Store
}

func NewPropertyService(repo repos.PropertyRepo, files filestore.Store) *PropertyService {
	return &PropertyService{Repo: repo, Files: files}
}

func (s *PropertyService) List(ctx context.Context) ([]domain.Property, error) {
	out, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperr.ErrInternal.Wrap(err)
	}
	return out, nil
}

func (s *PropertyService) Create(ctx context.Context, form PropertyForm, up *Upload) (domain.Property, error) {
	patch, err := s.patch(ctx, form, up)
	if err != nil {
		return domain.Property{}, err
	}
	var p domain.Property
	patch.Apply(&p)

	created, err := s.Repo.Create(ctx, p)
	if err != nil {
		return domain.Property{}, apperr.ErrInvalid.Msg("could not save property").Wrap(err)
	}
	return created, nil
}

// Update overlays the supplied fields onto an existing property.
func (s *PropertyService) Update(ctx context.Context, id string, form PropertyForm, up *Upload) (domain.Property, error) {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return domain.Property{}, lookupError(err)
	}
	patch, err := s.patch(ctx, form, up)
	if err != nil {
		return domain.Property{}, err
	}

	updated, err := s.Repo.Update(ctx, id, patch)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, repos.ErrNotFound):
		// deleted between the lookup and the write
		return domain.Property{}, apperr.ErrNotFound.Msg(msgNotFound)
	default:
		return domain.Property{}, apperr.ErrInvalid.Msg("could not save property").Wrap(err)
	}
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return lookupError(err)
	}
	return nil
}

// patch validates the form and stores the image, if any. The image is written
// before any record is touched and is not removed if the record write fails.
func (s *PropertyService) patch(ctx context.Context, form PropertyForm, up *Upload) (domain.PropertyPatch, error) {
	if msg, ok := validate.Struct(form); !ok {
		return domain.PropertyPatch{}, apperr.ErrInvalid.Msg("%s", msg)
	}

	patch := domain.PropertyPatch{
		Description: form.Description,
		Address:     form.Address,
	}
	if form.Price != nil && strings.TrimSpace(*form.Price) != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(*form.Price), 64)
		if err != nil {
			return domain.PropertyPatch{}, apperr.ErrInvalid.Msg("price must be a number").Wrap(err)
		}
		patch.Price = &price
	}

	if up != nil {
		path, err := s.store(ctx, up)
		if err != nil {
			return domain.PropertyPatch{}, apperr.ErrInternal.Msg("could not store image").Wrap(err)
		}
		patch.Image = &path
	}
	return patch, nil
}

func (s *PropertyService) store(ctx context.Context, up *Upload) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	name, err := s.Files.Save(ctx, up.Filename, rc)
	if err != nil {
		return "", err
	}
	return filestore.PublicPath(name), nil
}

func lookupError(err error) error {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return apperr.ErrNotFound.Msg(msgNotFound)
	case errors.Is(err, repos.ErrInvalidID):
		return apperr.ErrInvalid.Msg("invalid property id")
	default:
		return apperr.ErrInternal.Wrap(err)
	}
}
