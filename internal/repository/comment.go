package repository

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByPost returns a post's comments oldest first with their author
// summary preloaded. Threading is left to the client; parent_id is on
// every row.
func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	defer observability.TrackQuery("select", "comments")()

	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	defer observability.TrackQuery("select", "comments")()

	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", "comments")()

	return r.db.WithContext(ctx).Create(comment).Error
}

// UpdateContent replaces the content and marks the comment edited. The
// edited flag never resets. A missing row is (nil, nil).
func (r *commentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	defer observability.TrackQuery("update", "comments")()

	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	defer observability.TrackQuery("delete", "comments")()

	result := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("select", "comments")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
