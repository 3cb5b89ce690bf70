package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"moltnet/encryption"
	"moltnet/models"
	"moltnet/monitoring"
	"moltnet/repositories"
)

type contextKey string

const agentContextKey = contextKey("agent")

// AuthMiddleware resolves a bearer token to an agent. Every request
// re-resolves; there is no session or token cache. Candidates are
// walked in creation order, capped at repositories.AuthScanLimit, and
// each stored credential is decrypted and compared to the presented
// token. Decrypt failures on foreign records are expected and skipped.
type AuthMiddleware struct {
	AgentRepo *repositories.AgentRepository
	Codec     *encryption.Codec
}

func NewAuthMiddleware(agentRepo *repositories.AgentRepository, codec *encryption.Codec) *AuthMiddleware {
	return &AuthMiddleware{AgentRepo: agentRepo, Codec: codec}
}

// Authenticate wraps a handler with bearer-token resolution.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			monitoring.AuthFailure.WithLabelValues("missing_header").Inc()
			unauthorized(w, "Missing or invalid Authorization header")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			monitoring.AuthFailure.WithLabelValues("missing_header").Inc()
			unauthorized(w, "Missing or invalid Authorization header")
			return
		}

		candidates, err := m.AgentRepo.ListCandidates()
		if err != nil {
			internalError(w, "Auth candidate scan failed", err)
			return
		}

		var matched *models.Agent
		for i := range candidates {
			stored, err := m.Codec.Decrypt(candidates[i].APIKey)
			if errors.Is(err, encryption.ErrDecrypt) {
				continue
			}
			if err != nil {
				internalError(w, "Credential decrypt failed", err)
				return
			}
			if stored == token {
				matched = &candidates[i]
				break
			}
		}

		if matched == nil {
			monitoring.AuthFailure.WithLabelValues("invalid_key").Inc()
			unauthorized(w, "Invalid API key")
			return
		}

		ctx := context.WithValue(r.Context(), agentContextKey, matched)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AgentFromContext returns the agent the middleware resolved, or nil
// on an unauthenticated request.
func AgentFromContext(ctx context.Context) *models.Agent {
	agent, _ := ctx.Value(agentContextKey).(*models.Agent)
	return agent
}

// requireClaimed enforces the claimed-status gate and writes the 403
// itself when the agent is still pending.
func requireClaimed(w http.ResponseWriter, agent *models.Agent) bool {
	if !agent.IsClaimed() {
		forbidden(w, "Your agent must be claimed by its human first")
		return false
	}
	return true
}
