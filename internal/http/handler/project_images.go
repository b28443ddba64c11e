package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createProjectImageRequest struct {
	ProjectID string `json:"projectId"`
	ImageURL  string `json:"imageUrl"`
}

func (h *Handler) createProjectImage(c *fiber.Ctx) error {
	var req createProjectImageRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	img, err := h.store.ProjectImages().Create(c.UserContext(), &model.ProjectImage{
		ProjectID: req.ProjectID,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

func (h *Handler) listAllProjectImages(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	images, err := h.store.ProjectImages().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(images)
}

func (h *Handler) getProjectImage(c *fiber.Ctx) error {
	img, err := h.store.ProjectImages().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(img)
}

type updateProjectImageRequest struct {
	ImageURL *string `json:"imageUrl"`
}

func (h *Handler) updateProjectImage(c *fiber.Ctx) error {
	var req updateProjectImageRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	img, err := h.store.ProjectImages().Update(c.UserContext(), c.Params("id"), storage.ProjectImagePatch{
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(img)
}

func (h *Handler) deleteProjectImage(c *fiber.Ctx) error {
	if err := h.store.ProjectImages().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
