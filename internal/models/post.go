package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// ValidPostStatus reports whether s is one of the known lifecycle states.
func ValidPostStatus(s string) bool {
	switch PostStatus(s) {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents a blog post. The slug is derived from the title and
// unique across all posts; PublishedAt is set on the first transition to
// published and never moves afterwards.
type Post struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     *string    `gorm:"size:500" json:"excerpt"`
	Status      PostStatus `gorm:"size:16;not null;default:draft;index" json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	ViewCount   int64      `gorm:"not null;default:0" json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Author *UserSummary `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	// Tags is populated by the detail handlers from the join table.
	Tags []Tag `gorm:"-" json:"tags,omitempty"`
}

// BeforeCreate assigns a UUID when none was provided.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostFilter narrows List queries. Zero values mean "no constraint";
// Limit defaults to 20.
type PostFilter struct {
	Status   string
	AuthorID uuid.UUID
	Limit    int
	Offset   int
}
