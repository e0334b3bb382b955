package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/config"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer wires a server over an in-memory database. Routes are
// registered without the middleware stack: the Prometheus middleware
// registers process-global collectors and cannot be built once per test.
func setupTestServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.PostTag{},
		&models.Comment{},
	)
	require.NoError(t, err)

	s := NewServerWithDeps(&config.Config{Port: "0"}, db,
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewTagRepository(db),
		repository.NewCommentRepository(db),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupRoutes(app)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, path string) (*http.Response, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func seedUser(t *testing.T, app *fiber.App, email, username string) map[string]any {
	t.Helper()

	resp, body := doJSON(t, app, "POST", "/api/users", map[string]any{
		"email":         email,
		"username":      username,
		"password_hash": "$2a$10$abcdefghijklmnopqrstuv",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return body
}

func seedPost(t *testing.T, app *fiber.App, authorID, title string) map[string]any {
	t.Helper()

	resp, body := doJSON(t, app, "POST", "/api/posts", map[string]any{
		"author_id": authorID,
		"title":     title,
		"content":   "Content of " + title,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return body
}

func seedTag(t *testing.T, app *fiber.App, name string) map[string]any {
	t.Helper()

	resp, body := doJSON(t, app, "POST", "/api/tags", map[string]any{"name": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return body
}
