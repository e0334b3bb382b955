package repository

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	List(ctx context.Context, includeInactive bool) ([]models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (*models.UserCount, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// List returns users newest first. Inactive users are hidden unless
// explicitly requested.
func (r *userRepository) List(ctx context.Context, includeInactive bool) ([]models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var users []models.User
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID returns the user with the given ID, soft-deleted or not.
// Absence is (nil, nil), not an error.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var user models.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", "users")()

	return r.db.WithContext(ctx).Create(user).Error
}

// Update applies a partial patch and returns the resulting row. An empty
// patch is a read: the current row comes back unchanged. A missing row
// is (nil, nil).
func (r *userRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.User, error) {
	defer observability.TrackQuery("update", "users")()

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, nil
		}
	}
	return r.GetByID(ctx, id)
}

// SoftDelete flips is_active off and reports whether a row was hit.
// The row itself stays behind for attribution.
func (r *userRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	defer observability.TrackQuery("update", "users")()

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Count returns the active/inactive split.
func (r *userRepository) Count(ctx context.Context) (*models.UserCount, error) {
	defer observability.TrackQuery("select", "users")()

	var counts models.UserCount
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("COUNT(*) FILTER (WHERE is_active) AS active_count, COUNT(*) FILTER (WHERE NOT is_active) AS inactive_count").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}
