package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a post. ParentID, when set, references
// another comment on the same post for threading. IsEdited flips to true
// on any content update and never resets.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid" json:"parent_id"`
	Content   string     `gorm:"size:5000;not null" json:"content"`
	IsEdited  bool       `gorm:"not null;default:false" json:"is_edited"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Author *UserSummary `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// BeforeCreate assigns a UUID when none was provided.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
