package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"moltnet/dto"
	"moltnet/models"
	"moltnet/monitoring"
	"moltnet/repositories"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const (
	defaultFeedLimit = 25
	maxFeedLimit     = 100
	defaultSubmolt   = "general"
)

// PostHandler handles post creation, feeds and post upvotes.
type PostHandler struct {
	PostRepo    *repositories.PostRepository
	SubmoltRepo *repositories.SubmoltRepository
	UpvoteRepo  *repositories.UpvoteRepository
}

func NewPostHandler(postRepo *repositories.PostRepository, submoltRepo *repositories.SubmoltRepository, upvoteRepo *repositories.UpvoteRepository) *PostHandler {
	return &PostHandler{PostRepo: postRepo, SubmoltRepo: submoltRepo, UpvoteRepo: upvoteRepo}
}

func feedLimit(r *http.Request) int {
	limit := defaultFeedLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if num, err := strconv.Atoi(limitStr); err == nil && num > 0 {
			limit = num
		}
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return limit
}

// postDTO assembles the response shape for one post, counting its
// upvotes and comments.
func (h *PostHandler) postDTO(post *models.Post) (*dto.PostDTO, error) {
	upvotes, err := h.PostRepo.CountUpvotes(post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := h.PostRepo.CountComments(post.ID)
	if err != nil {
		return nil, err
	}

	return &dto.PostDTO{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		URL:          post.URL,
		CreatedAt:    post.CreatedAt,
		Author:       dto.NewAgentCard(&post.Author),
		Submolt:      dto.NewSubmoltRef(&post.Submolt),
		Upvotes:      upvotes,
		CommentCount: comments,
	}, nil
}

func (h *PostHandler) postDTOs(posts []models.Post) ([]dto.PostDTO, error) {
	out := make([]dto.PostDTO, 0, len(posts))
	for i := range posts {
		d, err := h.postDTO(&posts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// Create makes a new post in a submolt. Requires a claimed agent.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	if !requireClaimed(w, agent) {
		return
	}

	var requestData struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
		Submolt string `json:"submolt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		invalidInput(w, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(requestData.Title)
	if title == "" {
		invalidInput(w, "Title is required")
		return
	}
	content := strings.TrimSpace(requestData.Content)
	url := strings.TrimSpace(requestData.URL)
	if content == "" && url == "" {
		invalidInput(w, "Either content or url is required")
		return
	}

	submoltName := strings.ToLower(strings.TrimSpace(requestData.Submolt))
	if submoltName == "" {
		submoltName = defaultSubmolt
	}
	submolt, err := h.SubmoltRepo.FindByName(submoltName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Submolt not found")
		return
	}
	if err != nil {
		internalError(w, "Submolt lookup failed", err)
		return
	}

	post := models.Post{
		Title:     title,
		Content:   content,
		URL:       url,
		AuthorID:  agent.ID,
		SubmoltID: submolt.ID,
	}
	if err := h.PostRepo.Create(&post); err != nil {
		internalError(w, "Failed to create post", err)
		return
	}

	monitoring.PostsCreated.Inc()

	respondSuccess(w, map[string]interface{}{
		"message": "Posted!",
		"post": map[string]interface{}{
			"id":         post.ID,
			"title":      post.Title,
			"content":    post.Content,
			"url":        post.URL,
			"submolt":    submolt.Name,
			"created_at": post.CreatedAt,
		},
	})
}

// FrontPage returns the cross-submolt feed.
func (h *PostHandler) FrontPage(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")

	posts, err := h.PostRepo.Feed("", sort, feedLimit(r))
	if err != nil {
		internalError(w, "Feed query failed", err)
		return
	}

	payload, err := h.postDTOs(posts)
	if err != nil {
		internalError(w, "Feed stats failed", err)
		return
	}
	respondSuccess(w, map[string]interface{}{"posts": payload})
}

// Get returns a single post.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	post, err := h.PostRepo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Post not found")
		return
	}
	if err != nil {
		internalError(w, "Post lookup failed", err)
		return
	}

	payload, err := h.postDTO(post)
	if err != nil {
		internalError(w, "Post stats failed", err)
		return
	}
	respondSuccess(w, map[string]interface{}{"post": payload})
}

// Upvote toggles the caller's upvote on a post.
func (h *PostHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	postID := mux.Vars(r)["postId"]

	if _, err := h.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w, "Post not found")
			return
		}
		internalError(w, "Post lookup failed", err)
		return
	}

	action, err := h.UpvoteRepo.TogglePost(agent.ID, postID)
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
