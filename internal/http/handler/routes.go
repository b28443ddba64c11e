package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"cmstore/internal/storage"
)

// Handler exposes the storage contract over HTTP. It holds no business
// logic of its own: request decoding, error mapping and response
// shaping only.
type Handler struct {
	store storage.Storage
}

// New creates a Handler over the given storage engine.
func New(store storage.Storage) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes attaches all routes to the provided Fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	// Health endpoint: checks backing store reachability
	app.Get("/health", h.health)

	// Backward-compatible simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api/v1")

	users := api.Group("/users")
	users.Post("/", h.createUser)
	users.Get("/", h.listUsers)
	users.Get("/:id", h.getUser)
	users.Put("/:id", h.updateUser)
	users.Delete("/:id", h.deleteUser)

	carousels := api.Group("/carousels")
	carousels.Post("/", h.createCarousel)
	carousels.Get("/", h.listCarousels)
	carousels.Put("/reorder", h.reorderCarousels)
	carousels.Get("/:id", h.getCarousel)
	carousels.Put("/:id", h.updateCarousel)
	carousels.Delete("/:id", h.deleteCarousel)

	projects := api.Group("/projects")
	projects.Post("/", h.createProject)
	projects.Get("/", h.listProjects)
	projects.Put("/reorder", h.reorderProjects)
	projects.Get("/:id", h.getProject)
	projects.Put("/:id", h.updateProject)
	projects.Delete("/:id", h.deleteProject)
	projects.Get("/:id/images", h.listProjectImages)
	projects.Put("/:id/images/reorder", h.reorderProjectImages)
	projects.Get("/:id/documents", h.listProjectDocuments)
	projects.Get("/:id/handbooks", h.listProjectHandbooks)

	images := api.Group("/project-images")
	images.Post("/", h.createProjectImage)
	images.Get("/", h.listAllProjectImages)
	images.Get("/:id", h.getProjectImage)
	images.Put("/:id", h.updateProjectImage)
	images.Delete("/:id", h.deleteProjectImage)

	documents := api.Group("/documents")
	documents.Post("/", h.createDocument)
	documents.Get("/", h.listDocuments)
	documents.Get("/:id", h.getDocument)
	documents.Put("/:id", h.updateDocument)
	documents.Delete("/:id", h.deleteDocument)

	handbooks := api.Group("/handbooks")
	handbooks.Post("/", h.createHandbook)
	handbooks.Get("/", h.listHandbooks)
	handbooks.Put("/reorder", h.reorderHandbooks)
	handbooks.Get("/:id", h.getHandbook)
	handbooks.Put("/:id", h.updateHandbook)
	handbooks.Delete("/:id", h.deleteHandbook)
	handbooks.Get("/:id/files", h.listHandbookFiles)
	handbooks.Put("/:id/files/reorder", h.reorderHandbookFiles)

	files := api.Group("/handbook-files")
	files.Post("/", h.createHandbookFile)
	files.Get("/", h.listAllHandbookFiles)
	files.Get("/:id", h.getHandbookFile)
	files.Put("/:id", h.updateHandbookFile)
	files.Delete("/:id", h.deleteHandbookFile)

	contacts := api.Group("/contacts")
	contacts.Post("/", h.createContact)
	contacts.Get("/", h.listContacts)
	contacts.Get("/:id", h.getContact)
	contacts.Put("/:id", h.updateContact)
	contacts.Delete("/:id", h.deleteContact)

	settings := api.Group("/settings")
	settings.Post("/", h.createSetting)
	settings.Get("/", h.listSettings)
	settings.Put("/upsert", h.upsertSetting)
	settings.Get("/lookup", h.lookupSetting)
	settings.Get("/:id", h.getSetting)
	settings.Put("/:id", h.updateSetting)
	settings.Delete("/:id", h.deleteSetting)
}

func (h *Handler) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.store.Health(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"detail": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
}

// listQuery decodes the shared list parameters: limit, offset, orderBy
// and desc. Filter fields stay server-side; exposing arbitrary Where
// maps over HTTP is not worth the injection surface.
func listQuery(c *fiber.Ctx) (storage.ListQuery, error) {
	var q storage.ListQuery
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		q.Take = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid offset")
		}
		q.Skip = n
	}
	if f := c.Query("orderBy"); f != "" {
		q.OrderBy = &storage.Order{Field: f, Desc: c.QueryBool("desc")}
	}
	return q, nil
}

// reorderRequest carries the full id list for a reorder endpoint;
// position in the list becomes the stored order.
type reorderRequest struct {
	IDs []string `json:"ids"`
}

func parseReorder(c *fiber.Ctx) (*reorderRequest, error) {
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if len(req.IDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ids is required")
	}
	return &req, nil
}
