package api

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/masa23/crmmail/mailtemplate"
	"github.com/masa23/crmmail/model"
)

func (s *Server) listTemplates(c echo.Context) error {
	return c.JSON(200, s.Templates.List(model.TemplateCategory(c.QueryParam("category"))))
}

func (s *Server) getTemplate(c echo.Context) error {
	t, err := s.Templates.Template(c.Param("id"))
	if errors.Is(err, mailtemplate.ErrTemplateNotFound) {
		return errorJSON(c, 404, "Template not found")
	}
	return c.JSON(200, t)
}

type ProcessRequest struct {
	TemplateID string            `json:"templateId"`
	Variables  map[string]string `json:"variables"`
}

type ProcessResponse struct {
	mailtemplate.Processed
	MissingVariables []string `json:"missingVariables"`
}

// processTemplate previews a substitution. Variables left out are reported
// and stay as {{name}} in the output.
func (s *Server) processTemplate(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, 400, "Invalid request body")
	}
	if req.TemplateID == "" {
		return errorJSON(c, 400, "templateId is required")
	}

	t, err := s.Templates.Template(req.TemplateID)
	if errors.Is(err, mailtemplate.ErrTemplateNotFound) {
		return errorJSON(c, 404, "Template not found")
	}

	missing := mailtemplate.Missing(t, req.Variables)
	if missing == nil {
		missing = []string{}
	}
	return c.JSON(200, ProcessResponse{
		Processed:        mailtemplate.Render(t, req.Variables),
		MissingVariables: missing,
	})
}
