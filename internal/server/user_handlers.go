package server

import (
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetUsers returns users, newest first. Deactivated accounts are hidden
// unless ?include_inactive=true.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	includeInactive := c.QueryBool("include_inactive", false)
	users, err := s.userRepo.List(ctx, includeInactive)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(users)
}

// GetUser returns a single user by ID, deactivated or not.
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("User"))
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("User"))
	}

	return c.JSON(user)
}

// GetUserCount returns the active/inactive account split.
func (s *Server) GetUserCount(c *fiber.Ctx) error {
	ctx := c.UserContext()

	counts, err := s.userRepo.Count(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(counts)
}

// CreateUser registers a new user. Email and username each get their
// own conflict message; the unique indexes backstop the pre-checks.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict, models.NewConflictError("Email already in use"))
	}

	existing, err = s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict, models.NewConflictError("Username already taken"))
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		DisplayName:  input.DisplayName,
		Bio:          input.Bio,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict, models.NewConflictError("Email or username already in use"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser applies a partial profile patch. Absent fields keep their
// current value.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("User"))
	}

	var input models.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if err := validation.Validate(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		updates["display_name"] = *input.DisplayName
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}

	user, err := s.userRepo.Update(ctx, id, updates)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("User"))
	}

	return c.JSON(user)
}

// DeleteUser deactivates an account. The row stays behind so existing
// posts and comments keep their attribution.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseUUID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("User"))
	}

	ok, err := s.userRepo.SoftDelete(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("User"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
