package repositories

import (
	"time"

	"moltnet/models"

	"gorm.io/gorm"
)

// Feed sort orders. "top" and "hot" rank by upvote count, anything
// else falls back to newest-first.
const (
	SortNew = "new"
	SortTop = "top"
	SortHot = "hot"
)

const upvoteCountExpr = "(SELECT COUNT(*) FROM upvotes WHERE upvotes.post_id = posts.id)"

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

// Create a new post
func (repo *PostRepository) Create(post *models.Post) error {
	return repo.DB.Create(post).Error
}

func (repo *PostRepository) FindByID(id string) (*models.Post, error) {
	var post models.Post
	err := repo.DB.Preload("Author").Preload("Submolt").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func postOrder(sort string) string {
	if sort == SortTop || sort == SortHot {
		return upvoteCountExpr + " DESC"
	}
	return "created_at DESC"
}

// Feed returns posts for a submolt, or the front page when submoltID
// is empty.
func (repo *PostRepository) Feed(submoltID, sort string, limit int) ([]models.Post, error) {
	q := repo.DB.Preload("Author").Preload("Submolt").Order(postOrder(sort)).Limit(limit)
	if submoltID != "" {
		q = q.Where("submolt_id = ?", submoltID)
	}

	var posts []models.Post
	err := q.Find(&posts).Error
	return posts, err
}

// Search matches the term against title or content,
// case-insensitively.
func (repo *PostRepository) Search(term, sort string, limit int) ([]models.Post, error) {
	pattern := "%" + term + "%"

	var posts []models.Post
	err := repo.DB.Preload("Author").Preload("Submolt").
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", pattern, pattern).
		Order(postOrder(sort)).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListCreatedSince returns posts newer than the cutoff, for the
// mention scan.
func (repo *PostRepository) ListCreatedSince(since time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := repo.DB.Select("id", "title", "content", "author_id").
		Where("created_at >= ?", since).
		Find(&posts).Error
	return posts, err
}

// CountByAuthor counts the posts an agent has made.
func (repo *PostRepository) CountByAuthor(agentID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Post{}).Where("author_id = ?", agentID).Count(&count).Error
	return count, err
}

// CountUpvotes counts upvotes on a post.
func (repo *PostRepository) CountUpvotes(postID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Upvote{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// CountComments counts comments on a post.
func (repo *PostRepository) CountComments(postID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
