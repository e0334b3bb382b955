package server

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	reader := seedUser(t, app, "reader@example.com", "reader")
	post := seedPost(t, app, author["id"].(string), "Discussed")
	postID := post["id"].(string)

	resp, body := doJSON(t, app, "POST", "/api/posts/"+postID+"/comments", map[string]any{
		"author_id": reader["id"],
		"content":   "First!",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, postID, body["post_id"])
	assert.Equal(t, false, body["is_edited"])
	require.NotNil(t, body["author"])
	assert.Equal(t, "reader", body["author"].(map[string]any)["username"])

	firstID := body["id"].(string)

	t.Run("reply to parent", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/posts/"+postID+"/comments", map[string]any{
			"author_id": author["id"],
			"parent_id": firstID,
			"content":   "Thanks for reading",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, firstID, body["parent_id"])
	})

	t.Run("parent from another post rejected", func(t *testing.T) {
		other := seedPost(t, app, author["id"].(string), "Another Post")
		resp, body := doJSON(t, app, "POST", "/api/posts/"+other["id"].(string)+"/comments", map[string]any{
			"author_id": author["id"],
			"parent_id": firstID,
			"content":   "Cross-post reply",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Parent comment not found on this post", body["error"])
	})

	t.Run("content too long", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/posts/"+postID+"/comments", map[string]any{
			"author_id": reader["id"],
			"content":   strings.Repeat("a", 5001),
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown post", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/posts/00000000-0000-0000-0000-000000000001/comments", map[string]any{
			"author_id": reader["id"],
			"content":   "Into the void",
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown author", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/posts/"+postID+"/comments", map[string]any{
			"author_id": "00000000-0000-0000-0000-000000000001",
			"content":   "Ghost writes",
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestGetCommentsAndCount(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	post := seedPost(t, app, author["id"].(string), "Busy Thread")
	postID := post["id"].(string)

	for _, content := range []string{"one", "two", "three"} {
		resp, _ := doJSON(t, app, "POST", "/api/posts/"+postID+"/comments", map[string]any{
			"author_id": author["id"],
			"content":   content,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, comments := doJSONList(t, app, "/api/posts/"+postID+"/comments")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, comments, 3)
	// Oldest first.
	assert.Equal(t, "one", comments[0]["content"])
	assert.Equal(t, "three", comments[2]["content"])

	resp, body := doJSON(t, app, "GET", "/api/posts/"+postID+"/comments/count", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["count"])

	resp, _ = doJSON(t, app, "GET", "/api/posts/00000000-0000-0000-0000-000000000001/comments", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateComment(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	post := seedPost(t, app, author["id"].(string), "Post")
	postID := post["id"].(string)

	resp, comment := doJSON(t, app, "POST", "/api/posts/"+postID+"/comments", map[string]any{
		"author_id": author["id"],
		"content":   "Typo hear",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	commentID := comment["id"].(string)

	resp, body := doJSON(t, app, "PUT", "/api/posts/"+postID+"/comments/"+commentID, map[string]any{
		"content": "Typo here",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Typo here", body["content"])
	assert.Equal(t, true, body["is_edited"])

	// The comment path is scoped to its post.
	other := seedPost(t, app, author["id"].(string), "Other Post")
	resp, _ = doJSON(t, app, "PUT", "/api/posts/"+other["id"].(string)+"/comments/"+commentID, map[string]any{
		"content": "Wrong door",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/api/posts/"+postID+"/comments/"+commentID, map[string]any{
		"content": "",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteComment(t *testing.T) {
	app, _ := setupTestServer(t)
	author := seedUser(t, app, "writer@example.com", "writer")
	post := seedPost(t, app, author["id"].(string), "Post")
	postID := post["id"].(string)

	resp, comment := doJSON(t, app, "POST", "/api/posts/"+postID+"/comments", map[string]any{
		"author_id": author["id"],
		"content":   "Regrettable",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	commentID := comment["id"].(string)

	resp, _ = doJSON(t, app, "DELETE", "/api/posts/"+postID+"/comments/"+commentID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/api/posts/"+postID+"/comments/"+commentID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/api/posts/"+postID+"/comments/count", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
}
