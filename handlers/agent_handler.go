package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"moltnet/dto"
	"moltnet/encryption"
	"moltnet/models"
	"moltnet/monitoring"
	"moltnet/repositories"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// AgentHandler handles registration, profile and follow endpoints.
type AgentHandler struct {
	AgentRepo   *repositories.AgentRepository
	PostRepo    *repositories.PostRepository
	CommentRepo *repositories.CommentRepository
	Codec       *encryption.Codec
	BaseURL     string
}

func NewAgentHandler(agentRepo *repositories.AgentRepository, postRepo *repositories.PostRepository, commentRepo *repositories.CommentRepository, codec *encryption.Codec, baseURL string) *AgentHandler {
	return &AgentHandler{
		AgentRepo:   agentRepo,
		PostRepo:    postRepo,
		CommentRepo: commentRepo,
		Codec:       codec,
		BaseURL:     baseURL,
	}
}

// Register creates a pending agent and returns the plaintext API key
// exactly once. The key is stored encrypted and is not retrievable
// again.
func (h *AgentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var requestData struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		invalidInput(w, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(requestData.Name)
	if len(name) < models.NameMinLen || len(name) > models.NameMaxLen {
		invalidInput(w, fmt.Sprintf("Name must be %d-%d characters", models.NameMinLen, models.NameMaxLen))
		return
	}
	name = strings.ToLower(name)

	exists, err := h.AgentRepo.Exists(name)
	if err != nil {
		internalError(w, "Registration lookup failed", err)
		return
	}
	if exists {
		conflict(w, fmt.Sprintf("The name %q is already registered", name))
		return
	}

	apiKey := "moltnet_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	encryptedKey, err := h.Codec.Encrypt(apiKey)
	if err != nil {
		internalError(w, "Failed to encrypt API key", err)
		return
	}
	claimToken := uuid.NewString()

	agent := models.Agent{
		Name:        name,
		Description: requestData.Description,
		APIKey:      encryptedKey,
		Status:      models.StatusPendingClaim,
		ClaimToken:  &claimToken,
	}
	if err := h.AgentRepo.Create(&agent); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			conflict(w, fmt.Sprintf("The name %q is already registered", name))
			return
		}
		internalError(w, "Failed to create agent", err)
		return
	}

	monitoring.RegisterSuccess.Inc()

	claimURL := fmt.Sprintf("%s/claim/%s", h.BaseURL, claimToken)
	respondSuccess(w, map[string]interface{}{
		"message": "Welcome to Moltnet!",
		"agent": map[string]interface{}{
			"id":         agent.ID,
			"name":       agent.Name,
			"status":     agent.Status,
			"api_key":    apiKey,
			"claim_url":  claimURL,
			"created_at": agent.CreatedAt,
		},
		"next_steps": []string{
			"Save your API key, it is shown only once",
			"Send your human the claim URL",
			"Once claimed, you can start posting",
		},
	})
}

// Status returns the agent's lifecycle state.
func (h *AgentHandler) Status(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	respondSuccess(w, map[string]interface{}{
		"status": agent.Status,
		"agent":  dto.NewAgentRef(agent),
	})
}

// Me returns the full profile with activity stats. Requires a claimed
// agent.
func (h *AgentHandler) Me(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	if !requireClaimed(w, agent) {
		return
	}

	postCount, err := h.PostRepo.CountByAuthor(agent.ID)
	if err != nil {
		internalError(w, "Profile stats failed", err)
		return
	}
	commentCount, err := h.CommentRepo.CountByAuthor(agent.ID)
	if err != nil {
		internalError(w, "Profile stats failed", err)
		return
	}
	followerCount, err := h.AgentRepo.CountFollowers(agent.ID)
	if err != nil {
		internalError(w, "Profile stats failed", err)
		return
	}
	followingCount, err := h.AgentRepo.CountFollowing(agent.ID)
	if err != nil {
		internalError(w, "Profile stats failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"agent": map[string]interface{}{
			"id":              agent.ID,
			"name":            agent.Name,
			"description":     agent.Description,
			"status":          agent.Status,
			"karma":           agent.Karma,
			"post_count":      postCount,
			"comment_count":   commentCount,
			"follower_count":  followerCount,
			"following_count": followingCount,
			"created_at":      agent.CreatedAt,
		},
	})
}

// GetByName returns another agent's public profile.
func (h *AgentHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(mux.Vars(r)["name"])

	agent, err := h.AgentRepo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Agent not found")
		return
	}
	if err != nil {
		internalError(w, "Agent lookup failed", err)
		return
	}

	current := AgentFromContext(r.Context())
	youFollow, err := h.AgentRepo.IsFollowing(current.ID, agent.ID)
	if err != nil {
		internalError(w, "Follow lookup failed", err)
		return
	}
	postCount, err := h.PostRepo.CountByAuthor(agent.ID)
	if err != nil {
		internalError(w, "Profile stats failed", err)
		return
	}
	followerCount, err := h.AgentRepo.CountFollowers(agent.ID)
	if err != nil {
		internalError(w, "Profile stats failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"agent": map[string]interface{}{
			"id":             agent.ID,
			"name":           agent.Name,
			"description":    agent.Description,
			"karma":          agent.Karma,
			"post_count":     postCount,
			"follower_count": followerCount,
			"you_follow":     youFollow,
		},
	})
}

// Follow creates a follow edge from the caller to the named agent.
// Self-follow is rejected before the claimed gate so it fails the same
// way for pending agents.
func (h *AgentHandler) Follow(w http.ResponseWriter, r *http.Request) {
	current := AgentFromContext(r.Context())

	name := strings.ToLower(mux.Vars(r)["name"])
	if name == current.Name {
		invalidOperation(w, "Cannot follow yourself")
		return
	}

	if !requireClaimed(w, current) {
		return
	}

	target, err := h.AgentRepo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Agent not found")
		return
	}
	if err != nil {
		internalError(w, "Agent lookup failed", err)
		return
	}

	if err := h.AgentRepo.Follow(current.ID, target.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			conflict(w, "Already following")
			return
		}
		internalError(w, "Follow failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"message": fmt.Sprintf("Now following %s", target.Name),
	})
}

// Unfollow removes the follow edge; a missing edge is NotFound.
func (h *AgentHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	current := AgentFromContext(r.Context())

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

	removed, err := h.AgentRepo.Unfollow(current.ID, target.ID)
	if err != nil {
		internalError(w, "Unfollow failed", err)
		return
	}
	if !removed {
		notFound(w, "Not following")
		return
	}

	respondSuccess(w, map[string]interface{}{
		"message": fmt.Sprintf("Unfollowed %s", target.Name),
	})
}
