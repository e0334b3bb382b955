package server

import (
	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetComments returns a post's comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(comments)
}

// GetCommentCount returns the number of comments on a post.
func (s *Server) GetCommentCount(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	count, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"count": count})
}

// CreateComment adds a comment to a post. The post ID comes from the
// path and overrides any value in the body. A parent comment, when
// given, must exist on the same post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if post == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}

	var input models.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	input.PostID = postID.String()
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

	var parentID *uuid.UUID
	if input.ParentID != nil {
		parsed, err := uuid.Parse(*input.ParentID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid parent comment ID"))
		}
		parent, err := s.commentRepo.GetByID(ctx, parsed)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
		if parent == nil || parent.PostID != postID {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Parent comment not found on this post"))
		}
		parentID = &parsed
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  input.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	// Reload to pick up the author summary.
	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateComment replaces a comment's content and marks it edited.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}
	commentID, err := parseUUID(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Comment"))
	}

	var input models.UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if comment == nil || comment.PostID != postID {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Comment"))
	}

	updated, err := s.commentRepo.UpdateContent(ctx, commentID, input.Content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if updated == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Comment"))
	}

	return c.JSON(updated)
}

// DeleteComment removes a comment from a post.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post"))
	}
	commentID, err := parseUUID(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Comment"))
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if comment == nil || comment.PostID != postID {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Comment"))
	}

	ok, err := s.commentRepo.Delete(ctx, commentID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Comment"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
