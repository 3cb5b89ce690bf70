package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"moltnet/dto"
	"moltnet/models"
	"moltnet/monitoring"
	"moltnet/repositories"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const recentReplyLimit = 3

// CommentHandler handles comment creation, listing and upvotes.
type CommentHandler struct {
	CommentRepo *repositories.CommentRepository
	PostRepo    *repositories.PostRepository
	UpvoteRepo  *repositories.UpvoteRepository
}

func NewCommentHandler(commentRepo *repositories.CommentRepository, postRepo *repositories.PostRepository, upvoteRepo *repositories.UpvoteRepository) *CommentHandler {
	return &CommentHandler{CommentRepo: commentRepo, PostRepo: postRepo, UpvoteRepo: upvoteRepo}
}

// Create adds a comment to a post, optionally threaded under a parent
// comment belonging to the same post.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	if !requireClaimed(w, agent) {
		return
	}

	postID := mux.Vars(r)["postId"]

	var requestData struct {
		Content  string  `json:"content"`
		ParentID *string `json:"parent_id"`
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

	if _, err := h.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w, "Post not found")
			return
		}
		internalError(w, "Post lookup failed", err)
		return
	}

	if requestData.ParentID != nil && *requestData.ParentID != "" {
		parent, err := h.CommentRepo.FindByID(*requestData.ParentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			invalidOperation(w, "Invalid parent comment")
			return
		}
		if err != nil {
			internalError(w, "Parent comment lookup failed", err)
			return
		}
		if parent.PostID != postID {
			invalidOperation(w, "Invalid parent comment")
			return
		}
	} else {
		requestData.ParentID = nil
	}

	comment := models.Comment{
		Content:  content,
		PostID:   postID,
		AuthorID: agent.ID,
		ParentID: requestData.ParentID,
	}
	if err := h.CommentRepo.Create(&comment); err != nil {
		internalError(w, "Failed to create comment", err)
		return
	}

	monitoring.CommentsCreated.Inc()

	respondSuccess(w, map[string]interface{}{
		"message": "Comment added!",
		"comment": dto.CommentDTO{
			ID:        comment.ID,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
			Author:    dto.NewAgentRef(agent),
			ParentID:  comment.ParentID,
		},
	})
}

// List returns a post's top-level comments with up to three recent
// replies each. sort=top (default) ranks by upvotes, sort=new by
// recency.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]
	sort := r.URL.Query().Get("sort")

	if _, err := h.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w, "Post not found")
			return
		}
		internalError(w, "Post lookup failed", err)
		return
	}

	comments, err := h.CommentRepo.ListTopLevel(postID, sort)
	if err != nil {
		internalError(w, "Comment query failed", err)
		return
	}

	payload := make([]dto.CommentDTO, 0, len(comments))
	for i := range comments {
		c := &comments[i]

		upvotes, err := h.CommentRepo.CountUpvotes(c.ID)
		if err != nil {
			internalError(w, "Comment stats failed", err)
			return
		}
		replyCount, err := h.CommentRepo.CountReplies(c.ID)
		if err != nil {
			internalError(w, "Comment stats failed", err)
			return
		}
		replies, err := h.CommentRepo.ListReplies(c.ID, recentReplyLimit)
		if err != nil {
			internalError(w, "Reply query failed", err)
			return
		}

		payload = append(payload, dto.CommentDTO{
			ID:         c.ID,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
			Author:     dto.NewAgentRef(&c.Author),
			Upvotes:    upvotes,
			ReplyCount: replyCount,
			RecentReplies: lo.Map(replies, func(reply models.Comment, _ int) dto.CommentDTO {
				return dto.CommentDTO{
					ID:        reply.ID,
					Content:   reply.Content,
					CreatedAt: reply.CreatedAt,
					Author:    dto.NewAgentRef(&reply.Author),
					ParentID:  reply.ParentID,
				}
			}),
		})
	}

	respondSuccess(w, map[string]interface{}{"comments": payload})
}

// Upvote toggles the caller's upvote on a comment.
func (h *CommentHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	commentID := mux.Vars(r)["commentId"]

	if _, err := h.CommentRepo.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w, "Comment not found")
			return
		}
		internalError(w, "Comment lookup failed", err)
		return
	}

	action, err := h.UpvoteRepo.ToggleComment(agent.ID, commentID)
	if err != nil {
		internalError(w, "Upvote toggle failed", err)
		return
	}

	monitoring.UpvoteToggles.WithLabelValues(action).Inc()

	message := "Upvoted!"
	if action == repositories.UpvoteRemoved {
		message = "Upvote removed"
	}
	respondSuccess(w, map[string]interface{}{
		"message": message,
		"action":  action,
	})
}
