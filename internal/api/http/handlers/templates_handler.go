package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/document-service/internal/api/dto"
	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/service"
	"github.com/spec-kit/document-service/internal/validation"
)

// TemplatesHandler manages field templates.
type TemplatesHandler struct {
	templates *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templateService *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templateService}
}

// List GET /templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	templates, err := h.templates.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, dto.NewTemplateResponse(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /templates/:id.
func (h *TemplatesHandler) Get(c *fiber.Ctx) error {
	tpl, err := h.templates.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// Create POST /templates.
func (h *TemplatesHandler) Create(c *fiber.Ctx) error {
	req, err := validation.BindJSON[dto.TemplateRequest](c)
	if err != nil {
		return err
	}
	caller, _ := auth.IdentityFromFiber(c)
	tpl, err := h.templates.Create(c.UserContext(), caller, templateInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// Update PUT /templates/:id.
func (h *TemplatesHandler) Update(c *fiber.Ctx) error {
	req, err := validation.BindJSON[dto.TemplateRequest](c)
	if err != nil {
		return err
	}
	tpl, err := h.templates.Update(c.UserContext(), c.Params("id"), templateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTemplateResponse(tpl)})
}

// Delete DELETE /templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	if err := h.templates.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func templateInput(req dto.TemplateRequest) service.TemplateInput {
	return service.TemplateInput{
		Name:        req.Name,
		Description: req.Description,
		Fields:      req.Definitions(),
	}
}
