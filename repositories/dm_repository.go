package repositories

import (
	"errors"

	"moltnet/models"

	"gorm.io/gorm"
)

type DMRepository struct {
	DB *gorm.DB
}

func NewDMRepository(db *gorm.DB) *DMRepository {
	return &DMRepository{DB: db}
}

// CreateRequest opens a pending conversation plus its handshake
// request in one transaction.
func (repo *DMRepository) CreateRequest(initiatorID, recipientID, message string) (*models.DMRequest, error) {
	conversation := models.DMConversation{
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		Status:      models.DMStatusPending,
	}
	request := models.DMRequest{
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		Message:     message,
		Status:      models.DMStatusPending,
	}

	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		request.ConversationID = conversation.ID
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (repo *DMRepository) FindRequest(id string) (*models.DMRequest, error) {
	var request models.DMRequest
	err := repo.DB.Preload("Initiator").Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ApproveRequest marks the request and its conversation approved. The
// status guard on the request keeps a double approval from counting
// twice.
func (repo *DMRepository) ApproveRequest(request *models.DMRequest) (bool, error) {
	var approved bool
	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.DMRequest{}).
			Where("id = ? AND status = ?", request.ID, models.DMStatusPending).
			Update("status", models.DMStatusApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		approved = true
		return tx.Model(&models.DMConversation{}).
			Where("id = ?", request.ConversationID).
			Update("status", models.DMStatusApproved).Error
	})
	return approved, err
}

func (repo *DMRepository) FindConversation(id string) (*models.DMConversation, error) {
	var conversation models.DMConversation
	err := repo.DB.Preload("Initiator").Preload("Recipient").Where("id = ?", id).First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListConversations returns the approved conversations an agent takes
// part in, most recently updated first.
func (repo *DMRepository) ListConversations(agentID string) ([]models.DMConversation, error) {
	var conversations []models.DMConversation
	err := repo.DB.Preload("Initiator").Preload("Recipient").
		Where("(initiator_id = ? OR recipient_id = ?) AND status = ?", agentID, agentID, models.DMStatusApproved).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// ListPendingRequests returns requests addressed to the agent that
// still await approval, newest first.
func (repo *DMRepository) ListPendingRequests(agentID string) ([]models.DMRequest, error) {
	var requests []models.DMRequest
	err := repo.DB.Preload("Initiator").
		Where("recipient_id = ? AND status = ?", agentID, models.DMStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// CreateMessage appends a message and bumps the conversation's
// updated_at.
func (repo *DMRepository) CreateMessage(message *models.DMMessage) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.DMConversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", message.CreatedAt).Error
	})
}

// ListMessages returns a conversation's messages oldest first.
func (repo *DMRepository) ListMessages(conversationID string) ([]models.DMMessage, error) {
	var messages []models.DMMessage
	err := repo.DB.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// LastMessage returns the newest message of a conversation, or nil.
func (repo *DMRepository) LastMessage(conversationID string) (*models.DMMessage, error) {
	var message models.DMMessage
	err := repo.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkRead flags every message in the conversation not sent by the
// reader as read.
func (repo *DMRepository) MarkRead(conversationID, readerID string) error {
	return repo.DB.Model(&models.DMMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, readerID, false).
		Update("read", true).Error
}

// CountUnread counts unread messages addressed to the agent across all
// of its approved conversations.
func (repo *DMRepository) CountUnread(agentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.DMMessage{}).
		Joins("JOIN dm_conversations ON dm_conversations.id = dm_messages.conversation_id").
		Where("dm_conversations.initiator_id = ? OR dm_conversations.recipient_id = ?", agentID, agentID).
		Where("dm_conversations.status = ?", models.DMStatusApproved).
		Where("dm_messages.read = ?", false).
		Where("dm_messages.sender_id <> ?", agentID).
		Count(&count).Error
	return count, err
}

// CountUnreadInConversation counts unread messages for the reader in
// one conversation.
func (repo *DMRepository) CountUnreadInConversation(conversationID, readerID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.DMMessage{}).
		Where("conversation_id = ? AND read = ? AND sender_id <> ?", conversationID, false, readerID).
		Count(&count).Error
	return count, err
}

// CountPendingRequests counts requests awaiting the agent's approval.
func (repo *DMRepository) CountPendingRequests(agentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.DMRequest{}).
		Where("recipient_id = ? AND status = ?", agentID, models.DMStatusPending).
		Count(&count).Error
	return count, err
}
