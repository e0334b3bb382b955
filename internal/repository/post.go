package repository

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/textutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data access.
type PostRepository interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id uuid.UUID, input models.UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns posts newest first with their author summary preloaded.
func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Limit(limit).Offset(filter.Offset)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a post, deriving the slug from the title and the
// excerpt from the content when none was supplied. A post created
// directly as published gets its publication timestamp immediately.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	post.Slug = textutil.Slugify(post.Title)
	if post.Excerpt == nil {
		excerpt := textutil.Excerpt(post.Content)
		post.Excerpt = &excerpt
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		now := r.db.NowFunc()
		post.PublishedAt = &now
	}

	return r.db.WithContext(ctx).Create(post).Error
}

// Update applies a partial patch. A new title re-derives the slug; new
// content re-derives the excerpt unless one was given explicitly. The
// publication timestamp is written at most once: moving to published
// keeps an existing published_at via COALESCE, so re-publishing never
// shifts it. A missing row is (nil, nil).
func (r *postRepository) Update(ctx context.Context, id uuid.UUID, input models.UpdatePostInput) (*models.Post, error) {
	defer observability.TrackQuery("update", "posts")()

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
		updates["slug"] = textutil.Slugify(*input.Title)
	}
	if input.Content != nil {
		updates["content"] = *input.Content
		if input.Excerpt == nil {
			updates["excerpt"] = textutil.Excerpt(*input.Content)
		}
	}
	if input.Excerpt != nil {
		updates["excerpt"] = *input.Excerpt
	}
	if input.Status != nil {
		updates["status"] = *input.Status
		if *input.Status == string(models.PostStatusPublished) {
			updates["published_at"] = gorm.Expr("COALESCE(published_at, ?)", r.db.NowFunc())
		}
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, nil
		}
	}
	return r.GetByID(ctx, id)
}

// Delete hard-deletes a post and reports whether a row was hit.
// Comments and tag associations go with it via ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	defer observability.TrackQuery("delete", "posts")()

	result := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementViewCount bumps the counter atomically in SQL. Callers treat
// a failure here as non-fatal; the read already succeeded.
func (r *postRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	defer observability.TrackQuery("update", "posts")()

	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
