package handlers

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"estatehub/internal/apperr"
	"estatehub/internal/filestore"
	applog "estatehub/internal/log"
	"estatehub/internal/validate"
)

type UploadHandler struct {
	Files filestore.Store
}

// GET /uploads/*
func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	name, ok := validate.Filename(c.Params("*"))
	if !ok {
		applog.Security(c, "uploads.traversal.block", map[string]any{"path": c.Params("*")})
		return apperr.ErrNotFound.Msg("file not found")
	}
	rc, err := h.Files.Open(c.UserContext(), name)
	if errors.Is(err, filestore.ErrNotExist) {
		return apperr.ErrNotFound.Msg("file not found")
	}
	if err != nil {
		return apperr.ErrInternal.Wrap(err)
	}

	applog.Info(c, "uploads.serve", map[string]any{"name": name})

	if ext := filepath.Ext(name); ext != "" {
		c.Type(ext)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	// fasthttp closes rc once the body is written
	return c.SendStream(rc)
}
