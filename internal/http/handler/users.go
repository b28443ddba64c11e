package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"cmstore/internal/auth"
	"cmstore/internal/model"
	"cmstore/internal/storage"
)

// userResponse is the wire shape of a user. The stored bcrypt hash
// never leaves the server.
type userResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type createUserRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	if req.Password == "" {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", `validation failed on "password": is required`)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return storageError(c, err)
	}

	u, err := h.store.Users().Create(c.UserContext(), &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
	})
	if err != nil {
		return storageError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(u))
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	users, err := h.store.Users().FindMany(c.UserContext(), q)
	if err != nil {
		return storageError(c, err)
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(out)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	u, err := h.store.Users().FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(toUserResponse(u))
}

type updateUserRequest struct {
	Name     *string     `json:"name"`
	Email    *string     `json:"email"`
	Password *string     `json:"password"`
	Role     *model.Role `json:"role"`
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	patch := storage.UserPatch{Name: req.Name, Email: req.Email, Role: req.Role}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return storageError(c, err)
		}
		patch.Password = &hash
	}

	u, err := h.store.Users().Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(toUserResponse(u))
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	if err := h.store.Users().Delete(c.UserContext(), c.Params("id")); err != nil {
		return storageError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
