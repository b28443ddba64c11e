package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cmstore/internal/lock"
	"cmstore/internal/model"
	"cmstore/internal/objstore"
	"cmstore/internal/objstore/mocks"
	"cmstore/internal/storage/jsonstore"
)

// newTestApp wires the full route table over a memory-backed engine so
// handler tests exercise real storage semantics end to end.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := jsonstore.New(objstore.NewMemory(), lock.NewManager())
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	New(store).RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newTestApp(t)

		resp := doJSON(t, app, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy reports diagnostic", func(t *testing.T) {
		client := new(mocks.MockClient)
		client.On("Ping", mock.Anything).Return(errors.New("bucket unreachable"))
		store := jsonstore.New(client, lock.NewManager())
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		New(store).RegisterRoutes(app)

		resp := doJSON(t, app, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		assert.Equal(t, "unhealthy", body["status"])
		assert.Contains(t, body["detail"], "bucket unreachable")
	})
}

func TestLivenessProbe(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateUser(t *testing.T) {
	app := newTestApp(t)

	t.Run("success redacts password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/users", fiber.Map{
			"name": "Alice", "email": "alice@example.com", "password": "s3cret", "role": "admin",
		})

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decode[map[string]any](t, resp)
		assert.NotEmpty(t, body["id"])
		assert.Equal(t, "alice@example.com", body["email"])
		_, hasPassword := body["password"]
		assert.False(t, hasPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/users", fiber.Map{
			"name": "Imposter", "email": "ALICE@example.com", "password": "other", "role": "editor",
		})

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "CONFLICT", body.Error.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/users", fiber.Map{
			"name": "Bob", "email": "bob@example.com", "password": "pw", "role": "superuser",
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/users", fiber.Map{
			"name": "Bob", "email": "bob@example.com", "role": "editor",
		})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetMissingResource(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/projects/ghost", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[errorPayload](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestCarouselLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/carousels", fiber.Map{
		"title": "Welcome", "imageUrl": "https://cdn/hero.jpg", "isActive": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[model.Carousel](t, resp)
	assert.Equal(t, 0, first.Order)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/carousels", fiber.Map{
		"title": "Second", "imageUrl": "https://cdn/second.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decode[model.Carousel](t, resp)
	assert.Equal(t, 1, second.Order)

	resp = doJSON(t, app, http.MethodPut, "/api/v1/carousels/reorder", fiber.Map{
		"ids": []string{second.ID, first.ID},
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/carousels?orderBy=order", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	slides := decode[[]model.Carousel](t, resp)
	require.Len(t, slides, 2)
	assert.Equal(t, second.ID, slides[0].ID)

	resp = doJSON(t, app, http.MethodPut, "/api/v1/carousels/"+first.ID, fiber.Map{"title": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[model.Carousel](t, resp)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "https://cdn/hero.jpg", updated.ImageURL)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/carousels/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/carousels/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectCascadeOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/projects", fiber.Map{
		"title": "Office Tower", "category": "commercial", "isActive": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decode[model.Project](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/project-images", fiber.Map{
		"projectId": project.ID, "imageUrl": "https://cdn/tower.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	image := decode[model.ProjectImage](t, resp)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/projects/"+project.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/project-images/"+image.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContactDefaults(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/contacts", fiber.Map{
		"name": "Visitor", "email": "visitor@example.com", "message": "Quote please",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sub := decode[model.ContactSubmission](t, resp)
	assert.Equal(t, model.ContactNew, sub.Status)
	assert.False(t, sub.Archived)
}

func TestSettingUpsert(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPut, "/api/v1/settings/upsert", fiber.Map{
		"type": "contact", "key": "phone", "value": "111",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[model.SiteSetting](t, resp)

	resp = doJSON(t, app, http.MethodPut, "/api/v1/settings/upsert", fiber.Map{
		"type": "contact", "key": "phone", "value": "222",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overwritten := decode[model.SiteSetting](t, resp)

	assert.Equal(t, created.ID, overwritten.ID)
	assert.Equal(t, "222", overwritten.Value)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/settings/lookup?type=contact&key=phone", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	found := decode[model.SiteSetting](t, resp)
	assert.Equal(t, "222", found.Value)
}

func TestListQueryValidation(t *testing.T) {
	app := newTestApp(t)

	t.Run("invalid limit", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/documents?limit=abc", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/documents?orderBy=nope", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	})
}

func TestRouting(t *testing.T) {
	app := newTestApp(t)

	t.Run("not found route", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/non-existent", nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/health", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "METHOD_NOT_ALLOWED", body.Error.Code)
	})
}
