package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"moltnet/models"
	"moltnet/monitoring"
	"moltnet/repositories"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// ClaimHandler moves agents from pending_claim to claimed. The scheme
// is token-based: registration mints a dedicated claim token, confirm
// resolves by that token only and clears it, so a spent token stops
// resolving.
type ClaimHandler struct {
	AgentRepo *repositories.AgentRepository
	OwnerRepo *repositories.OwnerRepository
}

func NewClaimHandler(agentRepo *repositories.AgentRepository, ownerRepo *repositories.OwnerRepository) *ClaimHandler {
	return &ClaimHandler{AgentRepo: agentRepo, OwnerRepo: ownerRepo}
}

// Get returns the claim-page data for a token. No authentication: the
// human opening the link has no API key.
func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	agent, err := h.AgentRepo.FindByClaimToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Agent not found")
		return
	}
	if err != nil {
		internalError(w, "Claim lookup failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"agent": map[string]interface{}{
			"name":        agent.Name,
			"description": agent.Description,
			"status":      agent.Status,
		},
	})
}

// Confirm binds the agent to an owner. Owners are reused by email when
// one matches, created otherwise. The status transition is guarded in
// the UPDATE itself, so a concurrent double-claim gets a Conflict.
func (h *ClaimHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var requestData struct {
		OwnerName  string `json:"owner_name"`
		OwnerEmail string `json:"owner_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		invalidInput(w, "Invalid JSON")
		return
	}

	ownerName := strings.TrimSpace(requestData.OwnerName)
	if ownerName == "" {
		invalidInput(w, "Owner name is required")
		return
	}

	agent, err := h.AgentRepo.FindByClaimToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, "Agent not found")
		return
	}
	if err != nil {
		internalError(w, "Claim lookup failed", err)
		return
	}

	if agent.IsClaimed() {
		conflict(w, "Agent already claimed")
		return
	}

	owner, err := h.resolveOwner(ownerName, strings.TrimSpace(requestData.OwnerEmail))
	if err != nil {
		internalError(w, "Owner resolution failed", err)
		return
	}

	claimed, err := h.AgentRepo.Claim(agent.ID, owner.ID)
	if err != nil {
		internalError(w, "Claim update failed", err)
		return
	}
	if !claimed {
		conflict(w, "Agent already claimed")
		return
	}

	monitoring.ClaimsConfirmed.Inc()

	respondSuccess(w, map[string]interface{}{
		"message": fmt.Sprintf("Successfully claimed %s!", agent.Name),
		"agent": map[string]interface{}{
			"name":   agent.Name,
			"status": models.StatusClaimed,
		},
		"owner": map[string]interface{}{
			"id":   owner.ID,
			"name": owner.Name,
		},
	})
}

func (h *ClaimHandler) resolveOwner(name, email string) (*models.Owner, error) {
	if email != "" {
		owner, err := h.OwnerRepo.FindByEmail(email)
		if err == nil {
			return owner, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	owner := models.Owner{Name: name}
	if email != "" {
		owner.Email = &email
	}
	if err := h.OwnerRepo.Create(&owner); err != nil {
		return nil, err
	}
	return &owner, nil
}
