package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag labels posts. The slug is derived from the name and unique.
type Tag struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	Slug        string    `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Description *string   `gorm:"size:200" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID when none was provided.
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// PostTag is the post/tag association row. The composite primary key
// makes duplicate associations impossible; inserts use ON CONFLICT DO
// NOTHING so re-adding a tag is a no-op.
type PostTag struct {
	PostID uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	TagID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tag_id"`
}

// TableName keeps the join table name stable regardless of pluralization.
func (PostTag) TableName() string {
	return "post_tags"
}
