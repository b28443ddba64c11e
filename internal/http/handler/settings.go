package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

type createSettingRequest struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *Handler) createSetting(c *fiber.Ctx) error {
	var req createSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	s, err := h.store.Settings().Create(c.UserContext(), &model.SiteSetting{
		Type:  req.Type,
		Key:   req.Key,
		Value: req.Value,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func (h *Handler) listSettings(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	settings, err := h.store.Settings().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(settings)
}

func (h *Handler) getSetting(c *fiber.Ctx) error {
	s, err := h.store.Settings().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(s)
}

// lookupSetting resolves a setting by its natural (type, key) pair.
func (h *Handler) lookupSetting(c *fiber.Ctx) error {
	typ, key := c.Query("type"), c.Query("key")
	if typ == "" || key == "" {
		return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "type and key are required")
	}
	s, err := h.store.Settings().FindByTypeAndKey(c.UserContext(), typ, key)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(s)
}

type updateSettingRequest struct {
	Value *string `json:"value"`
}

func (h *Handler) updateSetting(c *fiber.Ctx) error {
	var req updateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	s, err := h.store.Settings().Update(c.UserContext(), c.Params("id"), storage.SettingPatch{
		Value: req.Value,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(s)
}

func (h *Handler) upsertSetting(c *fiber.Ctx) error {
	var req createSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	s, err := h.store.Settings().Upsert(c.UserContext(), req.Type, req.Key, req.Value)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(s)
}

func (h *Handler) deleteSetting(c *fiber.Ctx) error {
	if err := h.store.Settings().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
