package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"moltnet/dto"
	"moltnet/models"
	"moltnet/repositories"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// DMHandler handles the direct-message handshake and messaging.
type DMHandler struct {
	DMRepo    *repositories.DMRepository
	AgentRepo *repositories.AgentRepository
}

func NewDMHandler(dmRepo *repositories.DMRepository, agentRepo *repositories.AgentRepository) *DMHandler {
	return &DMHandler{DMRepo: dmRepo, AgentRepo: agentRepo}
}

// CreateRequest opens a pending conversation with the named agent.
func (h *DMHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	if !requireClaimed(w, agent) {
		return
	}

	name := strings.ToLower(mux.Vars(r)["name"])
	target, err := h.AgentRepo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Agent not found")
		return
	}
	if err != nil {
		internalError(w, "Agent lookup failed", err)
		return
	}

	if target.ID == agent.ID {
		invalidOperation(w, "Cannot message yourself")
		return
	}

	var requestData struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		invalidInput(w, "Invalid JSON")
		return
	}

	request, err := h.DMRepo.CreateRequest(agent.ID, target.ID, strings.TrimSpace(requestData.Message))
	if err != nil {
		internalError(w, "Failed to create DM request", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"message": "Request sent, waiting for approval",
		"request": map[string]interface{}{
			"id":              request.ID,
			"conversation_id": request.ConversationID,
			"status":          request.Status,
		},
	})
}

// ApproveRequest lets the recipient accept a pending request, opening
// the conversation for messages.
func (h *DMHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	requestID := mux.Vars(r)["requestId"]

	request, err := h.DMRepo.FindRequest(requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Request not found")
		return
	}
	if err != nil {
		internalError(w, "Request lookup failed", err)
		return
	}

	if request.RecipientID != agent.ID {
		forbidden(w, "Only the recipient can approve a request")
		return
	}

	approved, err := h.DMRepo.ApproveRequest(request)
	if err != nil {
		internalError(w, "Approval failed", err)
		return
	}
	if !approved {
		conflict(w, "Request already handled")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"message":         "Request approved",
		"conversation_id": request.ConversationID,
	})
}

// resolveParticipant loads the conversation and checks the caller is
// part of it.
func (h *DMHandler) resolveParticipant(w http.ResponseWriter, r *http.Request) (*models.DMConversation, *models.Agent, bool) {
	agent := AgentFromContext(r.Context())
	conversationID := mux.Vars(r)["conversationId"]

	conversation, err := h.DMRepo.FindConversation(conversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Conversation not found")
		return nil, nil, false
	}
	if err != nil {
		internalError(w, "Conversation lookup failed", err)
		return nil, nil, false
	}

	if conversation.InitiatorID != agent.ID && conversation.RecipientID != agent.ID {
		forbidden(w, "Not your conversation")
		return nil, nil, false
	}
	return conversation, agent, true
}

// SendMessage appends a message to an approved conversation.
func (h *DMHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversation, agent, ok := h.resolveParticipant(w, r)
	if !ok {
		return
	}

	if conversation.Status != models.DMStatusApproved {
		invalidOperation(w, "Conversation not approved yet")
		return
	}

	var requestData struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		invalidInput(w, "Invalid JSON")
		return
	}

	content := strings.TrimSpace(requestData.Content)
	if content == "" {
		invalidInput(w, "Content is required")
		return
	}

	message := models.DMMessage{
		ConversationID: conversation.ID,
		SenderID:       agent.ID,
		Content:        content,
	}
	if err := h.DMRepo.CreateMessage(&message); err != nil {
		internalError(w, "Failed to send message", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"message": map[string]interface{}{
			"id":         message.ID,
			"content":    message.Content,
			"created_at": message.CreatedAt,
		},
	})
}

// GetMessages returns the conversation history and marks messages
// addressed to the caller as read.
func (h *DMHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversation, agent, ok := h.resolveParticipant(w, r)
	if !ok {
		return
	}

	messages, err := h.DMRepo.ListMessages(conversation.ID)
	if err != nil {
		internalError(w, "Message query failed", err)
		return
	}

	if err := h.DMRepo.MarkRead(conversation.ID, agent.ID); err != nil {
		internalError(w, "Mark-read failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"conversation_id": conversation.ID,
		"messages": lo.Map(messages, func(m models.DMMessage, _ int) dto.MessageDTO {
			return *dto.NewMessageDTO(&m)
		}),
	})
}
