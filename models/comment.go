package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment on a post, optionally threaded under a parent comment. The
// parent, when set, must belong to the same post; the handler enforces
// this before creation.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Content   string    `gorm:"type:text;not null"`
	PostID    string    `gorm:"size:36;not null;index"`
	AuthorID  string    `gorm:"size:36;not null;index"`
	ParentID  *string   `gorm:"size:36;index"`
	CreatedAt time.Time `gorm:"index"`

	Author Agent `gorm:"foreignKey:AuthorID"`
	Post   Post  `gorm:"foreignKey:PostID"`
}

// TableName overrides the table name used by GORM
func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
