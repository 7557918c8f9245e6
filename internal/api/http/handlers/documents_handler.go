package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/document-service/internal/api/dto"
	"github.com/spec-kit/document-service/internal/auth"
	"github.com/spec-kit/document-service/internal/service"
	"github.com/spec-kit/document-service/internal/validation"
)

// DocumentsHandler manages document metadata and extracted fields.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documentService *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documentService}
}

// Create POST /documents.
func (h *DocumentsHandler) Create(c *fiber.Ctx) error {
	req, err := validation.BindJSON[dto.CreateDocumentRequest](c)
	if err != nil {
		return err
	}
	caller, _ := auth.IdentityFromFiber(c)
	doc, err := h.documents.Create(c.UserContext(), caller, service.CreateDocumentInput{
		TemplateID: req.TemplateID,
		Title:      req.Title,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDocumentResponse(doc)})
}

// List GET /documents.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	caller, _ := auth.IdentityFromFiber(c)
	docs, err := h.documents.List(c.UserContext(), caller, service.DocumentListInput{
		OwnerID:    c.Query("owner_id"),
		TemplateID: c.Query("template_id"),
		Status:     c.Query("status"),
		Limit:      c.QueryInt("limit"),
		Offset:     c.QueryInt("offset"),
	})
	if err != nil {
		return err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, dto.NewDocumentResponse(&docs[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /documents/:id.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	caller, _ := auth.IdentityFromFiber(c)
	doc, err := h.documents.Get(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentResponse(doc)})
}

// Update PATCH /documents/:id.
func (h *DocumentsHandler) Update(c *fiber.Ctx) error {
	req, err := validation.BindJSON[dto.UpdateDocumentRequest](c)
	if err != nil {
		return err
	}
	caller, _ := auth.IdentityFromFiber(c)
	doc, err := h.documents.Update(c.UserContext(), caller, c.Params("id"), service.UpdateDocumentInput{
		TemplateID: req.TemplateID,
		Title:      req.Title,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDocumentResponse(doc)})
}

// Delete DELETE /documents/:id.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	caller, _ := auth.IdentityFromFiber(c)
	if err := h.documents.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetFields GET /documents/:id/fields.
func (h *DocumentsHandler) GetFields(c *fiber.Ctx) error {
	caller, _ := auth.IdentityFromFiber(c)
	values, err := h.documents.GetFields(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFieldValuesResponse(values)})
}

// PutFields PUT /documents/:id/fields.
func (h *DocumentsHandler) PutFields(c *fiber.Ctx) error {
	req, err := validation.BindJSON[dto.PutFieldsRequest](c)
	if err != nil {
		return err
	}
	caller, _ := auth.IdentityFromFiber(c)
	values, err := h.documents.PutFields(c.UserContext(), caller, c.Params("id"), req.Values)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFieldValuesResponse(values)})
}
