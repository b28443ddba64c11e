package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createCarouselRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
	IsActive bool   `json:"isActive"`
}

func (h *Handler) createCarousel(c *fiber.Ctx) error {
	var req createCarouselRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	slide, err := h.store.Carousels().Create(c.UserContext(), &model.Carousel{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		ImageURL: req.ImageURL,
		IsActive: req.IsActive,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(slide)
}

func (h *Handler) listCarousels(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	slides, err := h.store.Carousels().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(slides)
}

func (h *Handler) getCarousel(c *fiber.Ctx) error {
	slide, err := h.store.Carousels().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(slide)
}

type updateCarouselRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	ImageURL *string `json:"imageUrl"`
	IsActive *bool   `json:"isActive"`
}

func (h *Handler) updateCarousel(c *fiber.Ctx) error {
	var req updateCarouselRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	slide, err := h.store.Carousels().Update(c.UserContext(), c.Params("id"), storage.CarouselPatch{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		ImageURL: req.ImageURL,
		IsActive: req.IsActive,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(slide)
}

func (h *Handler) deleteCarousel(c *fiber.Ctx) error {
	if err := h.store.Carousels().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) reorderCarousels(c *fiber.Ctx) error {
	req, err := parseReorder(c)
	if err != nil {
		return err
	}
	if err := h.store.Carousels().Reorder(c.UserContext(), req.IDs); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
