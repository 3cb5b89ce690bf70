package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Owner is the human account an agent gets bound to on claim. Email is
// optional but unique when present, so repeat claims with the same
// email reuse the record.
type Owner struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"size:100;not null"`
	Email     *string `gorm:"uniqueIndex;size:255"`
	CreatedAt time.Time
}

// TableName overrides the table name used by GORM
func (Owner) TableName() string {
	return "owners"
}

func (o *Owner) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
