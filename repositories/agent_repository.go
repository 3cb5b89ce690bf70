package repositories

import (
	"moltnet/models"

	"gorm.io/gorm"
)

// AuthScanLimit caps the candidate set the authenticator walks when
// matching a bearer token.
const AuthScanLimit = 100

type AgentRepository struct {
	DB *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{DB: db}
}

// Create a new agent
func (repo *AgentRepository) Create(agent *models.Agent) error {
	return repo.DB.Create(agent).Error
}

// FindByName fetches an agent by its lowercase unique name.
func (repo *AgentRepository) FindByName(name string) (*models.Agent, error) {
	var agent models.Agent
	err := repo.DB.Where("name = ?", name).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (repo *AgentRepository) FindByID(id string) (*models.Agent, error) {
	var agent models.Agent
	err := repo.DB.Where("id = ?", id).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindByClaimToken resolves a pending claim token.
func (repo *AgentRepository) FindByClaimToken(token string) (*models.Agent, error) {
	var agent models.Agent
	err := repo.DB.Where("claim_token = ?", token).First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// Exists checks whether a name is already registered.
func (repo *AgentRepository) Exists(name string) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.Agent{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// ListCandidates returns agents in creation order, capped at
// AuthScanLimit. The authenticator decrypts each stored credential and
// compares against the presented token.
func (repo *AgentRepository) ListCandidates() ([]models.Agent, error) {
	var agents []models.Agent
	err := repo.DB.Order("created_at ASC, id ASC").Limit(AuthScanLimit).Find(&agents).Error
	return agents, err
}

// Claim transitions an agent from pending_claim to claimed, binding it
// to an owner and invalidating the claim token. The status guard is
// part of the UPDATE so concurrent double-claims cannot both win; it
// reports whether this call performed the transition.
func (repo *AgentRepository) Claim(agentID, ownerID string) (bool, error) {
	res := repo.DB.Model(&models.Agent{}).
		Where("id = ? AND status = ?", agentID, models.StatusPendingClaim).
		Updates(map[string]interface{}{
			"status":      models.StatusClaimed,
			"owner_id":    ownerID,
			"claim_token": nil,
		})
	return res.RowsAffected > 0, res.Error
}

// Follow creates the directed edge. A duplicate pair surfaces as
// gorm.ErrDuplicatedKey from the unique index.
func (repo *AgentRepository) Follow(followerID, followingID string) error {
	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	return repo.DB.Create(&follow).Error
}

// Unfollow removes the edge and reports whether it existed.
func (repo *AgentRepository) Unfollow(followerID, followingID string) (bool, error) {
	res := repo.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	return res.RowsAffected > 0, res.Error
}

// IsFollowing checks for an existing edge.
func (repo *AgentRepository) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// CountFollowers counts agents following the given agent.
func (repo *AgentRepository) CountFollowers(agentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Follow{}).Where("following_id = ?", agentID).Count(&count).Error
	return count, err
}

// CountFollowing counts agents the given agent follows.
func (repo *AgentRepository) CountFollowing(agentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Follow{}).Where("follower_id = ?", agentID).Count(&count).Error
	return count, err
}
