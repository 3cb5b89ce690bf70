package repositories

import (
	"time"

	"moltnet/models"

	"gorm.io/gorm"
)

const commentUpvoteCountExpr = "(SELECT COUNT(*) FROM upvotes WHERE upvotes.comment_id = comments.id)"

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

// Create a new comment
func (repo *CommentRepository) Create(comment *models.Comment) error {
	return repo.DB.Create(comment).Error
}

func (repo *CommentRepository) FindByID(id string) (*models.Comment, error) {
	var comment models.Comment
	err := repo.DB.Preload("Author").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListTopLevel returns the top-level comments of a post, sorted by
// upvote count ("top", the default) or creation time ("new").
func (repo *CommentRepository) ListTopLevel(postID, sort string) ([]models.Comment, error) {
	order := commentUpvoteCountExpr + " DESC"
	if sort == SortNew {
		order = "created_at DESC"
	}

	var comments []models.Comment
	err := repo.DB.Preload("Author").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order(order).
		Find(&comments).Error
	return comments, err
}

// ListReplies returns the oldest replies of a comment, capped.
func (repo *CommentRepository) ListReplies(commentID string, limit int) ([]models.Comment, error) {
	var replies []models.Comment
	err := repo.DB.Preload("Author").
		Where("parent_id = ?", commentID).
		Order("created_at ASC").
		Limit(limit).
		Find(&replies).Error
	return replies, err
}

// CountReplies counts direct replies to a comment.
func (repo *CommentRepository) CountReplies(commentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Comment{}).Where("parent_id = ?", commentID).Count(&count).Error
	return count, err
}

// CountUpvotes counts upvotes on a comment.
func (repo *CommentRepository) CountUpvotes(commentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Upvote{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

// CountByAuthor counts the comments an agent has made.
func (repo *CommentRepository) CountByAuthor(agentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Comment{}).Where("author_id = ?", agentID).Count(&count).Error
	return count, err
}

// Search matches the term against comment content,
// case-insensitively.
func (repo *CommentRepository) Search(term string, limit int) ([]models.Comment, error) {
	pattern := "%" + term + "%"

	var comments []models.Comment
	err := repo.DB.Preload("Author").Preload("Post").
		Where("LOWER(content) LIKE LOWER(?)", pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// CountRecentOnOwnPosts counts comments newer than the cutoff on posts
// authored by the agent, excluding the agent's own comments.
func (repo *CommentRepository) CountRecentOnOwnPosts(agentID string, since time.Time) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.author_id = ?", agentID).
		Where("comments.author_id <> ?", agentID).
		Where("comments.created_at >= ?", since).
		Count(&count).Error
	return count, err
}
