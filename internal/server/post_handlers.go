package server

import (
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetPosts returns posts newest first, optionally filtered by status
// and author.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	filter := models.PostFilter{Status: c.Query("status")}
	filter.Limit, filter.Offset = parsePagination(c)

	if filter.Status != "" && !models.ValidPostStatus(filter.Status) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status filter"))
	}

	if raw := c.Query("author_id"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid author ID"))
		}
		filter.AuthorID = authorID
	}

	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(posts)
}

// GetPost returns a post by ID with its tags, counting the view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	s.countView(c, post)
	s.attachTags(c, post)

	return c.JSON(post)
}

// GetPostBySlug returns a post by its slug with its tags, counting the view.
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	ctx := c.UserContext()

	post, err := s.postRepo.GetBySlug(ctx, c.Params("slug"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	s.countView(c, post)
	s.attachTags(c, post)

	return c.JSON(post)
}

// countView bumps the view counter. The read already succeeded, so a
// failed bump is logged and the response goes out anyway.
func (s *Server) countView(c *fiber.Ctx, post *models.Post) {
	if err := s.postRepo.IncrementViewCount(c.UserContext(), post.ID); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to increment view count",
			slog.String("post_id", post.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	post.ViewCount++
}

// attachTags loads the post's tags onto the response object, logging
// instead of failing when the lookup breaks.
func (s *Server) attachTags(c *fiber.Ctx, post *models.Post) {
	tags, err := s.tagRepo.ListForPost(c.UserContext(), post.ID)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to load post tags",
			slog.String("post_id", post.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	post.Tags = tags
}

// CreatePost creates a post. The slug is derived from the title, so a
// duplicate title surfaces as a conflict. Tag associations are applied
// best-effort: a bad tag ID is logged and skipped, never failing the
// create.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input models.CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	authorID, err := uuid.Parse(input.AuthorID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid author ID"))
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if author == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Author"))
	}

	post := &models.Post{
		AuthorID: authorID,
		Title:    input.Title,
		Content:  input.Content,
		Excerpt:  input.Excerpt,
		Status:   models.PostStatus(input.Status),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("A post with this title already exists"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	for _, raw := range input.TagIDs {
		tagID, err := uuid.Parse(raw)
		if err == nil {
			err = s.tagRepo.AddToPost(ctx, post.ID, tagID)
		}
		if err != nil {
			middleware.Logger.WarnContext(ctx, "skipping tag association",
				slog.String("post_id", post.ID.String()),
				slog.String("tag_id", raw),
				slog.String("error", err.Error()),
			)
		}
	}

	s.attachTags(c, post)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost applies a partial patch to a post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	var input models.UpdatePostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postRepo.Update(ctx, id, input)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("A post with this title already exists"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	s.attachTags(c, post)

	return c.JSON(post)
}

// DeletePost hard-deletes a post together with its comments and tag
// associations.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	ok, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetPostTags returns the tags attached to a post.
func (s *Server) GetPostTags(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	tags, err := s.tagRepo.ListForPost(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(tags)
}

// AddTagToPost attaches an existing tag to a post. Re-attaching is a
// no-op.
func (s *Server) AddTagToPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}
	tagID, err := parseUUID(c, "tagId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if tag == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	if err := s.tagRepo.AddToPost(ctx, postID, tagID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveTagFromPost detaches a tag from a post. The remove is
// unconditional: detaching an absent association succeeds the same way.
func (s *Server) RemoveTagFromPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}
	tagID, err := parseUUID(c, "tagId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	if _, err := s.tagRepo.RemoveFromPost(ctx, postID, tagID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
