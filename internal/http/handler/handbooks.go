package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createHandbookRequest struct {
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	Password  string `json:"password"`
}

func (h *Handler) createHandbook(c *fiber.Ctx) error {
	var req createHandbookRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	hb, err := h.store.Handbooks().Create(c.UserContext(), &model.Handbook{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Password:  req.Password,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(hb)
}

func (h *Handler) listHandbooks(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	handbooks, err := h.store.Handbooks().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(handbooks)
}

func (h *Handler) getHandbook(c *fiber.Ctx) error {
	hb, err := h.store.Handbooks().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(hb)
}

type updateHandbookRequest struct {
	ProjectID *string `json:"projectId"`
	Title     *string `json:"title"`
	Password  *string `json:"password"`
}

func (h *Handler) updateHandbook(c *fiber.Ctx) error {
	var req updateHandbookRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	hb, err := h.store.Handbooks().Update(c.UserContext(), c.Params("id"), storage.HandbookPatch{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Password:  req.Password,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(hb)
}

// deleteHandbook removes the handbook and its files.
func (h *Handler) deleteHandbook(c *fiber.Ctx) error {
	if err := h.store.Handbooks().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) reorderHandbooks(c *fiber.Ctx) error {
	req, err := parseReorder(c)
	if err != nil {
		return err
	}
	if err := h.store.Handbooks().Reorder(c.UserContext(), req.IDs); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) listHandbookFiles(c *fiber.Ctx) error {
	files, err := h.store.HandbookFiles().FindByHandbook(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(files)
}

func (h *Handler) reorderHandbookFiles(c *fiber.Ctx) error {
	req, err := parseReorder(c)
	if err != nil {
		return err
	}
	if err := h.store.HandbookFiles().Reorder(c.UserContext(), c.Params("id"), req.IDs); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
