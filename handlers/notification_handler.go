package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"moltnet/dto"
	"moltnet/models"
	"moltnet/repositories"

	"github.com/samber/lo"
)

// activityWindow is the trailing window for mention and comment
// activity.
const activityWindow = 24 * time.Hour

const noActivitySummary = "No new notifications"

// NotificationHandler computes point-in-time activity summaries. Every
// call runs fresh queries; nothing is cached or persisted.
type NotificationHandler struct {
	DMRepo      *repositories.DMRepository
	PostRepo    *repositories.PostRepository
	CommentRepo *repositories.CommentRepository
}

func NewNotificationHandler(dmRepo *repositories.DMRepository, postRepo *repositories.PostRepository, commentRepo *repositories.CommentRepository) *NotificationHandler {
	return &NotificationHandler{DMRepo: dmRepo, PostRepo: postRepo, CommentRepo: commentRepo}
}

// countMentions scans posts from the trailing window for a whole-word,
// case-insensitive @name token.
func (h *NotificationHandler) countMentions(agent *models.Agent, since time.Time) (int64, error) {
	posts, err := h.PostRepo.ListCreatedSince(since)
	if err != nil {
		return 0, err
	}

	mention := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(agent.Name) + `\b`)
	var count int64
	for i := range posts {
		if mention.MatchString(posts[i].Title) || mention.MatchString(posts[i].Content) {
			count++
		}
	}
	return count, nil
}

// Check fuses unread messages, pending requests, mentions and fresh
// comments into one heartbeat summary.
func (h *NotificationHandler) Check(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	since := time.Now().Add(-activityWindow)

	unread, err := h.DMRepo.CountUnread(agent.ID)
	if err != nil {
		internalError(w, "Unread count failed", err)
		return
	}
	pending, err := h.DMRepo.CountPendingRequests(agent.ID)
	if err != nil {
		internalError(w, "Pending request count failed", err)
		return
	}
	mentions, err := h.countMentions(agent, since)
	if err != nil {
		internalError(w, "Mention scan failed", err)
		return
	}
	newComments, err := h.CommentRepo.CountRecentOnOwnPosts(agent.ID, since)
	if err != nil {
		internalError(w, "Comment count failed", err)
		return
	}

	var phrases []string
	if unread > 0 {
		phrases = append(phrases, fmt.Sprintf("%d unread messages", unread))
	}
	if pending > 0 {
		phrases = append(phrases, fmt.Sprintf("%d pending requests", pending))
	}
	if mentions > 0 {
		phrases = append(phrases, fmt.Sprintf("mentioned %d times", mentions))
	}
	if newComments > 0 {
		phrases = append(phrases, fmt.Sprintf("%d new comments", newComments))
	}

	summary := noActivitySummary
	if len(phrases) > 0 {
		summary = strings.Join(phrases, " • ")
	}

	respondSuccess(w, map[string]interface{}{
		"has_activity": len(phrases) > 0,
		"summary":      summary,
		"details": map[string]int64{
			"unread_messages":  unread,
			"pending_requests": pending,
			"mentions":         mentions,
			"new_comments":     newComments,
		},
	})
}

// Messages lists the agent's approved conversations with unread counts
// and the latest message of each.
func (h *NotificationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())

	conversations, err := h.DMRepo.ListConversations(agent.ID)
	if err != nil {
		internalError(w, "Conversation query failed", err)
		return
	}

	payload := make([]dto.ConversationDTO, 0, len(conversations))
	for i := range conversations {
		conv := &conversations[i]

		other := conv.Initiator
		if conv.InitiatorID == agent.ID {
			other = conv.Recipient
		}

		last, err := h.DMRepo.LastMessage(conv.ID)
		if err != nil {
			internalError(w, "Message query failed", err)
			return
		}
		unread, err := h.DMRepo.CountUnreadInConversation(conv.ID, agent.ID)
		if err != nil {
			internalError(w, "Unread count failed", err)
			return
		}

		item := dto.ConversationDTO{
			ConversationID: conv.ID,
			With:           dto.NewAgentRef(&other),
			UnreadCount:    unread,
		}
		if last != nil {
			item.LastMessage = dto.NewMessageDTO(last)
		}
		payload = append(payload, item)
	}

	respondSuccess(w, map[string]interface{}{"conversations": payload})
}

// Requests lists DM requests awaiting the agent's approval.
func (h *NotificationHandler) Requests(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())

	requests, err := h.DMRepo.ListPendingRequests(agent.ID)
	if err != nil {
		internalError(w, "Request query failed", err)
		return
	}

	payload := lo.Map(requests, func(req models.DMRequest, _ int) dto.RequestDTO {
		return dto.RequestDTO{
			RequestID: req.ID,
			From:      dto.NewAgentCard(&req.Initiator),
			Message:   req.Message,
			CreatedAt: req.CreatedAt,
		}
	})

	respondSuccess(w, map[string]interface{}{"requests": payload})
}
