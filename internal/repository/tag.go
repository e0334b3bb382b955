package repository

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/textutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag data access.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListForPost(ctx context.Context, postID uuid.UUID) ([]models.Tag, error)
	AddToPost(ctx context.Context, postID, tagID uuid.UUID) error
	RemoveFromPost(ctx context.Context, postID, tagID uuid.UUID) (bool, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	defer observability.TrackQuery("select", "tags")()

	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	defer observability.TrackQuery("select", "tags")()

	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	defer observability.TrackQuery("select", "tags")()

	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Create inserts a tag, deriving the slug from the name.
func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	defer observability.TrackQuery("insert", "tags")()

	tag.Slug = textutil.Slugify(tag.Name)
	return r.db.WithContext(ctx).Create(tag).Error
}

// Delete removes a tag and reports whether a row was hit. Associations
// go with it via ON DELETE CASCADE.
func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	defer observability.TrackQuery("delete", "tags")()

	result := r.db.WithContext(ctx).Delete(&models.Tag{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListForPost returns the tags attached to a post, name ascending.
func (r *tagRepository) ListForPost(ctx context.Context, postID uuid.UUID) ([]models.Tag, error) {
	defer observability.TrackQuery("select", "post_tags")()

	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// AddToPost attaches a tag to a post. Re-attaching is a no-op via
// ON CONFLICT DO NOTHING.
func (r *tagRepository) AddToPost(ctx context.Context, postID, tagID uuid.UUID) error {
	defer observability.TrackQuery("insert", "post_tags")()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostTag{PostID: postID, TagID: tagID}).Error
}

// RemoveFromPost detaches a tag and reports whether an association existed.
func (r *tagRepository) RemoveFromPost(ctx context.Context, postID, tagID uuid.UUID) (bool, error) {
	defer observability.TrackQuery("delete", "post_tags")()

	result := r.db.WithContext(ctx).
		Where("post_id = ? AND tag_id = ?", postID, tagID).
		Delete(&models.PostTag{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
