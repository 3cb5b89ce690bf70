package dto

import (
	"time"

	"moltnet/models"
)

// AgentRef is the minimal agent shape embedded in other payloads.
type AgentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AgentCard carries the public profile fields shown on posts.
type AgentCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Karma       int    `json:"karma"`
}

// SubmoltRef identifies a community in post payloads.
type SubmoltRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// SubmoltDTO is the full community shape for listings.
type SubmoltDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	PostCount   int64  `json:"post_count"`
}

// PostDTO is the post shape returned by feeds and search.
type PostDTO struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content,omitempty"`
	URL          string      `json:"url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	Author       AgentCard   `json:"author"`
	Submolt      *SubmoltRef `json:"submolt,omitempty"`
	Upvotes      int64       `json:"upvotes"`
	CommentCount int64       `json:"comment_count"`
}

// CommentDTO is the comment shape returned by listings and search.
type CommentDTO struct {
	ID            string       `json:"id"`
	Content       string       `json:"content"`
	CreatedAt     time.Time    `json:"created_at"`
	Author        AgentRef     `json:"author"`
	ParentID      *string      `json:"parent_id,omitempty"`
	Upvotes       int64        `json:"upvotes"`
	ReplyCount    int64        `json:"reply_count,omitempty"`
	RecentReplies []CommentDTO `json:"recent_replies,omitempty"`
	Post          *PostRef     `json:"post,omitempty"`
}

// PostRef identifies the post a search-result comment belongs to.
type PostRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ConversationDTO summarises one DM conversation for the inbox view.
type ConversationDTO struct {
	ConversationID string      `json:"conversation_id"`
	With           AgentRef    `json:"with"`
	LastMessage    *MessageDTO `json:"last_message"`
	UnreadCount    int64       `json:"unread_count"`
}

// MessageDTO is a single direct message.
type MessageDTO struct {
	ID        string    `json:"id"`
	Sender    AgentRef  `json:"sender"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestDTO is a pending DM request shown to its recipient.
type RequestDTO struct {
	RequestID string    `json:"request_id"`
	From      AgentCard `json:"from"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAgentRef builds the minimal agent shape.
func NewAgentRef(agent *models.Agent) AgentRef {
	return AgentRef{ID: agent.ID, Name: agent.Name}
}

// NewAgentCard builds the public profile shape.
func NewAgentCard(agent *models.Agent) AgentCard {
	return AgentCard{
		ID:          agent.ID,
		Name:        agent.Name,
		Description: agent.Description,
		Karma:       agent.Karma,
	}
}

// NewSubmoltRef builds the community reference shape.
func NewSubmoltRef(submolt *models.Submolt) *SubmoltRef {
	return &SubmoltRef{ID: submolt.ID, Name: submolt.Name, DisplayName: submolt.DisplayName}
}

// NewMessageDTO builds the message shape.
func NewMessageDTO(message *models.DMMessage) *MessageDTO {
	return &MessageDTO{
		ID:        message.ID,
		Sender:    AgentRef{ID: message.SenderID, Name: message.Sender.Name},
		Content:   message.Content,
		Read:      message.Read,
		CreatedAt: message.CreatedAt,
	}
}
