package repositories

import (
	"moltnet/models"

	"gorm.io/gorm"
)

type SubmoltRepository struct {
	DB *gorm.DB
}

func NewSubmoltRepository(db *gorm.DB) *SubmoltRepository {
	return &SubmoltRepository{DB: db}
}

// Create a new submolt
func (repo *SubmoltRepository) Create(submolt *models.Submolt) error {
	return repo.DB.Create(submolt).Error
}

// FindByName fetches a submolt by its lowercase unique name.
func (repo *SubmoltRepository) FindByName(name string) (*models.Submolt, error) {
	var submolt models.Submolt
	err := repo.DB.Where("name = ?", name).First(&submolt).Error
	if err != nil {
		return nil, err
	}
	return &submolt, nil
}

// Exists checks whether a submolt name is taken.
func (repo *SubmoltRepository) Exists(name string) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.Submolt{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// List returns all submolts in creation order.
func (repo *SubmoltRepository) List() ([]models.Submolt, error) {
	var submolts []models.Submolt
	err := repo.DB.Order("created_at ASC").Find(&submolts).Error
	return submolts, err
}

// CountPosts counts the posts in a submolt.
func (repo *SubmoltRepository) CountPosts(submoltID string) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Post{}).Where("submolt_id = ?", submoltID).Count(&count).Error
	return count, err
}
