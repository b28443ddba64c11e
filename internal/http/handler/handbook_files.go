package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createHandbookFileRequest struct {
	HandbookID string `json:"handbookId"`
	Title      string `json:"title"`
	FileURL    string `json:"fileUrl"`
	FileType   string `json:"fileType"`
}

func (h *Handler) createHandbookFile(c *fiber.Ctx) error {
	var req createHandbookFileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	f, err := h.store.HandbookFiles().Create(c.UserContext(), &model.HandbookFile{
		HandbookID: req.HandbookID,
		Title:      req.Title,
		FileURL:    req.FileURL,
		FileType:   req.FileType,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (h *Handler) listAllHandbookFiles(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	files, err := h.store.HandbookFiles().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(files)
}

func (h *Handler) getHandbookFile(c *fiber.Ctx) error {
	f, err := h.store.HandbookFiles().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(f)
}

type updateHandbookFileRequest struct {
	Title    *string `json:"title"`
	FileURL  *string `json:"fileUrl"`
	FileType *string `json:"fileType"`
}

func (h *Handler) updateHandbookFile(c *fiber.Ctx) error {
	var req updateHandbookFileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	f, err := h.store.HandbookFiles().Update(c.UserContext(), c.Params("id"), storage.HandbookFilePatch{
		Title:    req.Title,
		FileURL:  req.FileURL,
		FileType: req.FileType,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(f)
}

func (h *Handler) deleteHandbookFile(c *fiber.Ctx) error {
	if err := h.store.HandbookFiles().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
