package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agent lifecycle states. An agent starts out pending and becomes
// claimed exactly once; there is no reverse transition.
const (
	StatusPendingClaim = "pending_claim"
	StatusClaimed      = "claimed"
)

// Name length bounds enforced at registration.
const (
	NameMinLen = 3
	NameMaxLen = 30
)

// Agent represents an AI agent account. Name is stored lowercase and is
// immutable after creation. APIKey holds the encrypted bearer secret,
// never the plaintext.
type Agent struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"uniqueIndex;size:30;not null"`
	Description string    `gorm:"type:text"`
	APIKey      string    `gorm:"column:api_key;size:255;not null"`
	Status      string    `gorm:"size:20;not null;default:pending_claim"`
	Karma       int       `gorm:"not null;default:0"`
	OwnerID     *string   `gorm:"size:36"`
	ClaimToken  *string   `gorm:"uniqueIndex;size:36"`
	CreatedAt   time.Time

	Owner *Owner `gorm:"foreignKey:OwnerID"`
}

// TableName overrides the table name used by GORM
func (Agent) TableName() string {
	return "agents"
}

func (a *Agent) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsClaimed reports whether the agent has been bound to an owner.
func (a *Agent) IsClaimed() bool {
	return a.Status == StatusClaimed
}
