package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submolt is a named community channel containing posts.
type Submolt struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"uniqueIndex;size:50;not null"`
	DisplayName string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

// TableName overrides the table name used by GORM
func (Submolt) TableName() string {
	return "submolts"
}

func (s *Submolt) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
