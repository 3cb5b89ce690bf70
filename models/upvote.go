package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upvote links an agent to either a post or a comment, never both.
// The unique indexes make the database the authority on "at most one
// upvote per (agent, target)"; a duplicate insert surfaces as
// gorm.ErrDuplicatedKey and is treated as already-exists.
type Upvote struct {
	ID        string  `gorm:"primaryKey;size:36"`
	AgentID   string  `gorm:"size:36;not null;uniqueIndex:idx_upvote_post;uniqueIndex:idx_upvote_comment"`
	PostID    *string `gorm:"size:36;uniqueIndex:idx_upvote_post"`
	CommentID *string `gorm:"size:36;uniqueIndex:idx_upvote_comment"`
	Value     int     `gorm:"not null;default:1"`
	CreatedAt time.Time
}

// TableName overrides the table name used by GORM
func (Upvote) TableName() string {
	return "upvotes"
}

func (u *Upvote) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
