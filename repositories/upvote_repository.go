package repositories

import (
	"errors"

	"moltnet/models"

	"gorm.io/gorm"
)

// Toggle outcomes reported to the caller.
const (
	UpvoteAdded   = "added"
	UpvoteRemoved = "removed"
)

type UpvoteRepository struct {
	DB *gorm.DB
}

func NewUpvoteRepository(db *gorm.DB) *UpvoteRepository {
	return &UpvoteRepository{DB: db}
}

// TogglePost flips the upvote edge between an agent and a post and
// reports which way it went. The unique index settles concurrent
// duplicate inserts.
func (repo *UpvoteRepository) TogglePost(agentID, postID string) (string, error) {
	return repo.toggle(agentID, "post_id", postID, &models.Upvote{AgentID: agentID, PostID: &postID, Value: 1})
}

// ToggleComment flips the upvote edge between an agent and a comment.
func (repo *UpvoteRepository) ToggleComment(agentID, commentID string) (string, error) {
	return repo.toggle(agentID, "comment_id", commentID, &models.Upvote{AgentID: agentID, CommentID: &commentID, Value: 1})
}

func (repo *UpvoteRepository) toggle(agentID, targetColumn, targetID string, fresh *models.Upvote) (string, error) {
	var existing models.Upvote
	err := repo.DB.Where("agent_id = ? AND "+targetColumn+" = ?", agentID, targetID).First(&existing).Error

	switch {
	case err == nil:
		if err := repo.DB.Delete(&existing).Error; err != nil {
			return "", err
		}
		return UpvoteRemoved, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		err := repo.DB.Create(fresh).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with another toggle; the edge exists now.
			return UpvoteAdded, nil
		}
		if err != nil {
			return "", err
		}
		return UpvoteAdded, nil

	default:
		return "", err
	}
}
