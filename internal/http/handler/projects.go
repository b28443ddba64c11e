package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createProjectRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	IsActive bool   `json:"isActive"`
}

func (h *Handler) createProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	p, err := h.store.Projects().Create(c.UserContext(), &model.Project{
		Title:    req.Title,
		Category: req.Category,
		IsActive: req.IsActive,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) listProjects(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	projects, err := h.store.Projects().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(projects)
}

func (h *Handler) getProject(c *fiber.Ctx) error {
	p, err := h.store.Projects().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(p)
}

type updateProjectRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	IsActive *bool   `json:"isActive"`
}

func (h *Handler) updateProject(c *fiber.Ctx) error {
	var req updateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	p, err := h.store.Projects().Update(c.UserContext(), c.Params("id"), storage.ProjectPatch{
		Title:    req.Title,
		Category: req.Category,
		IsActive: req.IsActive,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(p)
}

// deleteProject removes the project and everything it owns: images,
// documents, handbooks and their files.
func (h *Handler) deleteProject(c *fiber.Ctx) error {
	if err := h.store.Projects().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) reorderProjects(c *fiber.Ctx) error {
	req, err := parseReorder(c)
	if err != nil {
		return err
	}
	if err := h.store.Projects().Reorder(c.UserContext(), req.IDs); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) listProjectImages(c *fiber.Ctx) error {
	images, err := h.store.ProjectImages().FindByProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(images)
}

func (h *Handler) reorderProjectImages(c *fiber.Ctx) error {
	req, err := parseReorder(c)
	if err != nil {
		return err
	}
	if err := h.store.ProjectImages().Reorder(c.UserContext(), c.Params("id"), req.IDs); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) listProjectDocuments(c *fiber.Ctx) error {
	docs, err := h.store.Documents().FindByProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(docs)
}

func (h *Handler) listProjectHandbooks(c *fiber.Ctx) error {
	handbooks, err := h.store.Handbooks().FindByProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(handbooks)
}
