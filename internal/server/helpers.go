package server

import (
	"strconv"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// render executes a page template. Every page sees the current user and the
// form state, so those keys always exist even when a handler leaves them out.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["User"] = currentUser(c)
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string][]string(nil)
	}
	return c.Render(name, data)
}

// formValues collects the named fields of a submitted form.
func formValues(c *fiber.Ctx, fields ...string) map[string]string {
	form := make(map[string]string, len(fields))
	for _, f := range fields {
		form[f] = c.FormValue(f)
	}
	return form
}

// parseIDParam reads a numeric route parameter. Anything that is not a
// positive id is treated as a missing page.
func parseIDParam(c *fiber.Ctx, name, resource string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewNotFoundError(resource, raw)
	}
	return uint(id), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// saveUpload stores the optional image in field under kind. A rejected file
// comes back as form errors for that field; a missing file is not an error.
func (s *Server) saveUpload(c *fiber.Ctx, field, kind string) (string, map[string][]string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return "", nil, nil
	}

	upload, err := s.media.ReadFileHeader(fh)
	if err == nil {
		var rel string
		if rel, err = s.media.Save(kind, upload); err == nil {
			return rel, nil, nil
		}
	}
	if !models.IsValidation(err) {
		return "", nil, err
	}

	var msgs []string
	for _, m := range models.FieldErrors(err) {
		msgs = append(msgs, m...)
	}
	return "", map[string][]string{field: msgs}, nil
}
