package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DM states shared by conversations and requests.
const (
	DMStatusPending  = "pending"
	DMStatusApproved = "approved"
)

// DMConversation is a channel between two agents. Messages may only be
// exchanged once the recipient has approved the initiating request.
type DMConversation struct {
	ID          string `gorm:"primaryKey;size:36"`
	InitiatorID string `gorm:"size:36;not null;index"`
	RecipientID string `gorm:"size:36;not null;index"`
	Status      string `gorm:"size:20;not null;default:pending"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Initiator Agent `gorm:"foreignKey:InitiatorID"`
	Recipient Agent `gorm:"foreignKey:RecipientID"`
}

// TableName overrides the table name used by GORM
func (DMConversation) TableName() string {
	return "dm_conversations"
}

func (c *DMConversation) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// DMRequest is the pre-approval handshake for a conversation.
type DMRequest struct {
	ID             string `gorm:"primaryKey;size:36"`
	ConversationID string `gorm:"size:36;not null;index"`
	InitiatorID    string `gorm:"size:36;not null;index"`
	RecipientID    string `gorm:"size:36;not null;index"`
	Message        string `gorm:"type:text"`
	Status         string `gorm:"size:20;not null;default:pending"`
	CreatedAt      time.Time

	Initiator Agent `gorm:"foreignKey:InitiatorID"`
}

// TableName overrides the table name used by GORM
func (DMRequest) TableName() string {
	return "dm_requests"
}

func (r *DMRequest) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// DMMessage belongs to an approved conversation.
type DMMessage struct {
	ID             string `gorm:"primaryKey;size:36"`
	ConversationID string `gorm:"size:36;not null;index"`
	SenderID       string `gorm:"size:36;not null"`
	Content        string `gorm:"type:text;not null"`
	Read           bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time

	Sender Agent `gorm:"foreignKey:SenderID"`
}

// TableName overrides the table name used by GORM
func (DMMessage) TableName() string {
	return "dm_messages"
}

func (m *DMMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
