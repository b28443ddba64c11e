package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createDocumentRequest struct {
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	FileURL   string `json:"fileUrl"`
	Category  string `json:"category"`
	IsActive  bool   `json:"isActive"`
}

func (h *Handler) createDocument(c *fiber.Ctx) error {
	var req createDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	d, err := h.store.Documents().Create(c.UserContext(), &model.Document{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		FileURL:   req.FileURL,
		Category:  req.Category,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *Handler) listDocuments(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	docs, err := h.store.Documents().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(docs)
}

func (h *Handler) getDocument(c *fiber.Ctx) error {
	d, err := h.store.Documents().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(d)
}

type updateDocumentRequest struct {
	ProjectID *string `json:"projectId"`
	Title     *string `json:"title"`
	FileURL   *string `json:"fileUrl"`
	Category  *string `json:"category"`
	IsActive  *bool   `json:"isActive"`
}

func (h *Handler) updateDocument(c *fiber.Ctx) error {
	var req updateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	d, err := h.store.Documents().Update(c.UserContext(), c.Params("id"), storage.DocumentPatch{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		FileURL:   req.FileURL,
		Category:  req.Category,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(d)
}

func (h *Handler) deleteDocument(c *fiber.Ctx) error {
	if err := h.store.Documents().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
