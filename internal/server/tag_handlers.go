package server

import (
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/textutil"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetTags returns all tags sorted by name.
func (s *Server) GetTags(c *fiber.Ctx) error {
	ctx := c.UserContext()

	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(tags)
}

// GetTag returns a single tag by ID.
func (s *Server) GetTag(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if tag == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	return c.JSON(tag)
}

// GetTagBySlug returns a single tag by its slug.
func (s *Server) GetTagBySlug(c *fiber.Ctx) error {
	ctx := c.UserContext()

	tag, err := s.tagRepo.GetBySlug(ctx, c.Params("slug"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if tag == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	return c.JSON(tag)
}

// CreateTag creates a tag. Names that slugify to the same value collide;
// the slug's unique index backstops the pre-check.
func (s *Server) CreateTag(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input models.CreateTagInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	existing, err := s.tagRepo.GetBySlug(ctx, textutil.Slugify(input.Name))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict, models.NewConflictError("Tag already exists"))
	}

	tag := &models.Tag{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict, models.NewConflictError("Tag already exists"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}

// DeleteTag removes a tag and all its post associations.
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	ok, err := s.tagRepo.Delete(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Tag"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
