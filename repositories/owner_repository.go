package repositories

import (
	"moltnet/models"

	"gorm.io/gorm"
)

type OwnerRepository struct {
	DB *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{DB: db}
}

// FindByEmail looks up an owner by email so repeat claims reuse the
// existing record instead of creating duplicates.
func (repo *OwnerRepository) FindByEmail(email string) (*models.Owner, error) {
	var owner models.Owner
	err := repo.DB.Where("email = ?", email).First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// Create a new owner
func (repo *OwnerRepository) Create(owner *models.Owner) error {
	return repo.DB.Create(owner).Error
}
