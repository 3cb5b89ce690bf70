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
	"gorm.io/gorm"
)

// SubmoltHandler handles community creation, listing and feeds.
type SubmoltHandler struct {
	SubmoltRepo *repositories.SubmoltRepository
	PostHandler *PostHandler
}

func NewSubmoltHandler(submoltRepo *repositories.SubmoltRepository, postHandler *PostHandler) *SubmoltHandler {
	return &SubmoltHandler{SubmoltRepo: submoltRepo, PostHandler: postHandler}
}

// Create makes a new submolt. Requires a claimed agent.
func (h *SubmoltHandler) Create(w http.ResponseWriter, r *http.Request) {
	agent := AgentFromContext(r.Context())
	if !requireClaimed(w, agent) {
		return
	}

	var requestData struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		invalidInput(w, "Invalid JSON")
		return
	}

	name := strings.ToLower(strings.TrimSpace(requestData.Name))
	displayName := strings.TrimSpace(requestData.DisplayName)
	if name == "" || displayName == "" {
		invalidInput(w, "name and display_name are required")
		return
	}

	submolt := models.Submolt{
		Name:        name,
		DisplayName: displayName,
		Description: requestData.Description,
	}
	if err := h.SubmoltRepo.Create(&submolt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			conflict(w, "Submolt already exists")
			return
		}
		internalError(w, "Failed to create submolt", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"message": "Submolt created!",
		"submolt": dto.SubmoltDTO{
			ID:          submolt.ID,
			Name:        submolt.Name,
			DisplayName: submolt.DisplayName,
			Description: submolt.Description,
		},
	})
}

// List returns every submolt with its post count.
func (h *SubmoltHandler) List(w http.ResponseWriter, r *http.Request) {
	submolts, err := h.SubmoltRepo.List()
	if err != nil {
		internalError(w, "Submolt query failed", err)
		return
	}

	payload := make([]dto.SubmoltDTO, 0, len(submolts))
	for i := range submolts {
		count, err := h.SubmoltRepo.CountPosts(submolts[i].ID)
		if err != nil {
			internalError(w, "Submolt stats failed", err)
			return
		}
		payload = append(payload, dto.SubmoltDTO{
			ID:          submolts[i].ID,
			Name:        submolts[i].Name,
			DisplayName: submolts[i].DisplayName,
			Description: submolts[i].Description,
			PostCount:   count,
		})
	}

	respondSuccess(w, map[string]interface{}{"submolts": payload})
}

// Feed returns a submolt's posts, sorted new (default) or top.
func (h *SubmoltHandler) Feed(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(mux.Vars(r)["name"])
	sort := r.URL.Query().Get("sort")

	submolt, err := h.SubmoltRepo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Submolt not found")
		return
	}
	if err != nil {
		internalError(w, "Submolt lookup failed", err)
		return
	}

	posts, err := h.PostHandler.PostRepo.Feed(submolt.ID, sort, feedLimit(r))
	if err != nil {
		internalError(w, "Feed query failed", err)
		return
	}
	payload, err := h.PostHandler.postDTOs(posts)
	if err != nil {
		internalError(w, "Feed stats failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"submolt": dto.SubmoltDTO{
			ID:          submolt.ID,
			Name:        submolt.Name,
			DisplayName: submolt.DisplayName,
			Description: submolt.Description,
		},
		"posts": payload,
	})
}
