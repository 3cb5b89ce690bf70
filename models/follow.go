package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge between two agents, unique per ordered
// pair. Self-follows are rejected before this row is ever written.
type Follow struct {
	ID          string `gorm:"primaryKey;size:36"`
	FollowerID  string `gorm:"size:36;not null;uniqueIndex:idx_follow_pair"`
	FollowingID string `gorm:"size:36;not null;uniqueIndex:idx_follow_pair"`
	CreatedAt   time.Time
}

// TableName overrides the table name used by GORM
func (Follow) TableName() string {
	return "follows"
}

func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
