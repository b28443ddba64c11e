package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) createContact(c *fiber.Ctx) error {
	var req createContactRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	sub, err := h.store.Contacts().Create(c.UserContext(), &model.ContactSubmission{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *Handler) listContacts(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	subs, err := h.store.Contacts().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(subs)
}

func (h *Handler) getContact(c *fiber.Ctx) error {
	sub, err := h.store.Contacts().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(sub)
}

type updateContactRequest struct {
	Status   *model.ContactStatus `json:"status"`
	Archived *bool                `json:"archived"`
	Reply    *string              `json:"reply"`
}

func (h *Handler) updateContact(c *fiber.Ctx) error {
	var req updateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	sub, err := h.store.Contacts().Update(c.UserContext(), c.Params("id"), storage.ContactPatch{
		Status:   req.Status,
		Archived: req.Archived,
		Reply:    req.Reply,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(sub)
}

func (h *Handler) deleteContact(c *fiber.Ctx) error {
	if err := h.store.Contacts().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
