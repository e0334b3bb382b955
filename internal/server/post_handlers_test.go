package server

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	authorID := author["id"].(string)

	t.Run("derives slug and excerpt", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/posts", map[string]any{
			"author_id": authorID,
			"title":     "Hello, World!",
			"content":   "Short content",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "hello-world", body["slug"])
		assert.Equal(t, "Short content...", body["excerpt"])
		assert.Equal(t, "draft", body["status"])
		assert.Nil(t, body["published_at"])
	})

	t.Run("long content truncated to excerpt", func(t *testing.T) {
		content := strings.Repeat("a", 300)
		resp, body := doJSON(t, app, "POST", "/api/posts", map[string]any{
			"author_id": authorID,
			"title":     "A Long One",
			"content":   content,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		excerpt := body["excerpt"].(string)
		assert.Len(t, excerpt, 203)
		assert.True(t, strings.HasSuffix(excerpt, "..."))
	})

	t.Run("published at creation gets timestamp", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/posts", map[string]any{
			"author_id": authorID,
			"title":     "Born Published",
			"content":   "Body",
			"status":    "published",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.NotNil(t, body["published_at"])
	})

	t.Run("duplicate title conflicts on slug", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/posts", map[string]any{
			"author_id": authorID,
			"title":     "Hello, World!",
			"content":   "Another body",
		})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.Equal(t, "A post with this title already exists", body["error"])
	})

	t.Run("unknown author", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/posts", map[string]any{
			"author_id": "00000000-0000-0000-0000-000000000001",
			"title":     "Orphan",
			"content":   "Body",
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/posts", map[string]any{
			"author_id": authorID,
			"title":     "Bad Status",
			"content":   "Body",
			"status":    "retired",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.NotNil(t, body["fields"])
	})
}

func TestCreatePostWithTags(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	tag := seedTag(t, app, "golang")

	resp, body := doJSON(t, app, "POST", "/api/posts", map[string]any{
		"author_id": author["id"],
		"title":     "Tagged From Birth",
		"content":   "Body",
		"tag_ids":   []string{tag["id"].(string), "not-a-uuid"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// The good tag attached; the bad one was skipped, not fatal.
	tags, ok := body["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 1)
	assert.Equal(t, "golang", tags[0].(map[string]any)["name"])
}

func TestGetPostCountsViews(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	post := seedPost(t, app, author["id"].(string), "Counted Post")
	id := post["id"].(string)

	resp, body := doJSON(t, app, "GET", "/api/posts/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["view_count"])
	require.NotNil(t, body["author"])
	assert.Equal(t, "writer", body["author"].(map[string]any)["username"])

	resp, body = doJSON(t, app, "GET", "/api/posts/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["view_count"])
}

func TestGetPostBySlug(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	seedPost(t, app, author["id"].(string), "Find Me By Slug")

	resp, body := doJSON(t, app, "GET", "/api/posts/slug/find-me-by-slug", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Find Me By Slug", body["title"])
	assert.Equal(t, float64(1), body["view_count"])

	resp, _ = doJSON(t, app, "GET", "/api/posts/slug/no-such-slug", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetPostsFilters(t *testing.T) {
	app, _ := setupTestServer(t)
	alice := seedUser(t, app, "alice@example.com", "alice")
	bob := seedUser(t, app, "bob@example.com", "bobby")

	seedPost(t, app, alice["id"].(string), "Alice Draft")
	bobPost := seedPost(t, app, bob["id"].(string), "Bob Post")

	resp, _ := doJSON(t, app, "PATCH", "/api/posts/"+bobPost["id"].(string), map[string]any{
		"status": "published",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, posts := doJSONList(t, app, "/api/posts")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, posts, 2)

	resp, posts = doJSONList(t, app, "/api/posts?status=published")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, posts, 1)
	assert.Equal(t, "Bob Post", posts[0]["title"])

	resp, posts = doJSONList(t, app, "/api/posts?author_id="+alice["id"].(string))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, posts, 1)
	assert.Equal(t, "Alice Draft", posts[0]["title"])

	resp, _ = doJSON(t, app, "GET", "/api/posts?status=retired", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/posts?author_id=nope", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePost(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	post := seedPost(t, app, author["id"].(string), "Original Title")
	id := post["id"].(string)

	resp, body := doJSON(t, app, "PATCH", "/api/posts/"+id, map[string]any{
		"title": "Renamed Title",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "renamed-title", body["slug"])

	// Publishing stamps published_at; republishing keeps the original stamp.
	resp, body = doJSON(t, app, "PATCH", "/api/posts/"+id, map[string]any{
		"status": "published",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	firstPublishedAt := body["published_at"]
	require.NotNil(t, firstPublishedAt)

	resp, _ = doJSON(t, app, "PATCH", "/api/posts/"+id, map[string]any{"status": "draft"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, app, "PATCH", "/api/posts/"+id, map[string]any{"status": "published"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, firstPublishedAt, body["published_at"])

	resp, _ = doJSON(t, app, "PATCH", "/api/posts/00000000-0000-0000-0000-000000000001", map[string]any{
		"title": "Ghost",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeletePost(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	post := seedPost(t, app, author["id"].(string), "Doomed")
	id := post["id"].(string)

	resp, _ := doJSON(t, app, "DELETE", "/api/posts/"+id, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/posts/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/posts/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPostTagRoutes(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	post := seedPost(t, app, author["id"].(string), "Taggable")
	tag := seedTag(t, app, "databases")
	postID := post["id"].(string)
	tagID := tag["id"].(string)

	resp, _ := doJSON(t, app, "POST", "/api/posts/"+postID+"/tags/"+tagID, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// Attaching twice is a no-op.
	resp, _ = doJSON(t, app, "POST", "/api/posts/"+postID+"/tags/"+tagID, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, tags := doJSONList(t, app, "/api/posts/"+postID+"/tags")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, tags, 1)
	assert.Equal(t, "databases", tags[0]["name"])

	resp, _ = doJSON(t, app, "POST", "/api/posts/"+postID+"/tags/00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/posts/"+postID+"/tags/"+tagID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// Detaching an association that is no longer there succeeds too.
	resp, _ = doJSON(t, app, "DELETE", "/api/posts/"+postID+"/tags/"+tagID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, tags = doJSONList(t, app, "/api/posts/"+postID+"/tags")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, tags)
}
