package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post belongs to exactly one agent and one submolt.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"size:300;not null"`
	Content   string    `gorm:"type:text"`
	URL       string    `gorm:"size:2000"`
	AuthorID  string    `gorm:"size:36;not null;index"`
	SubmoltID string    `gorm:"size:36;not null;index"`
	CreatedAt time.Time `gorm:"index"`

	Author  Agent   `gorm:"foreignKey:AuthorID"`
	Submolt Submolt `gorm:"foreignKey:SubmoltID"`
}

// TableName overrides the table name used by GORM
func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
