package handlers

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"estatehub/internal/apperr"
	applog "estatehub/internal/log"
	"estatehub/internal/services"
	"estatehub/internal/validate"
)

type PropertyHandler struct {
	Props *services.PropertyService
}

// GET /api/properties
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	props, err := h.Props.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(props)
}

// POST /api/properties
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	form, up, err := readForm(c)
	if err != nil {
		return err
	}
	p, err := h.Props.Create(c.UserContext(), form, up)
	if err != nil {
		return err
	}
	applog.Audit(c, "property.create", map[string]any{"id": p.ID, "image": up != nil})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/properties/:id
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return apperr.ErrInvalid.Msg("invalid property id")
	}
	form, up, err := readForm(c)
	if err != nil {
		return err
	}
	p, err := h.Props.Update(c.UserContext(), id, form, up)
	if err != nil {
		return err
	}
	applog.Audit(c, "property.update", map[string]any{"id": p.ID, "image": up != nil})
	return c.JSON(p)
}

// DELETE /api/properties/:id
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return apperr.ErrInvalid.Msg("invalid property id")
	}
	if err := h.Props.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "property.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"message": "Property deleted"})
}

// jsonForm is the JSON rendering of PropertyForm. Price may arrive as a
// number or a string.
type jsonForm struct {
	Description *string      `json:"description"`
	Address     *string      `json:"address"`
	Price       *json.Number `json:"price"`
}

// readForm pulls the write fields out of a multipart, urlencoded or JSON body,
// remembering which fields were actually sent.
func readForm(c *fiber.Ctx) (services.PropertyForm, *services.Upload, error) {
	var form services.PropertyForm

	ctype := strings.ToLower(strings.TrimSpace(strings.SplitN(c.Get(fiber.HeaderContentType), ";", 2)[0]))
	switch {
	case ctype == fiber.MIMEMultipartForm:
		mf, err := c.MultipartForm()
		if err != nil {
			return form, nil, apperr.ErrInvalid.Msg("invalid multipart body").Wrap(err)
		}
		form.Description = firstValue(mf.Value["description"])
		form.Address = firstValue(mf.Value["address"])
		form.Price = firstValue(mf.Value["price"])

		var up *services.Upload
		if files := mf.File["image"]; len(files) > 0 {
			up = fileUpload(files[0])
		}
		return form, up, nil

	case strings.HasSuffix(ctype, "json"):
		var body jsonForm
		if err := c.BodyParser(&body); err != nil {
			return form, nil, apperr.ErrInvalid.Msg("invalid JSON body").Wrap(err)
		}
		form.Description = body.Description
		form.Address = body.Address
		if body.Price != nil {
			price := body.Price.String()
			form.Price = &price
		}
		return form, nil, nil

	case ctype == fiber.MIMEApplicationForm, len(c.Body()) == 0:
		args := c.Request().PostArgs()
		peek := func(key string) *string {
			if !args.Has(key) {
				return nil
			}
			v := string(args.Peek(key))
			return &v
		}
		form.Description = peek("description")
		form.Address = peek("address")
		form.Price = peek("price")
		return form, nil, nil

	default:
		applog.Security(c, "validation.fail", map[string]any{"content_type": ctype})
		return form, nil, apperr.ErrUnsupportedMedia.Msg("unsupported content type %q", ctype)
	}
}

func firstValue(vs []string) *string {
	if len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

func fileUpload(fh *multipart.FileHeader) *services.Upload {
	return &services.Upload{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
