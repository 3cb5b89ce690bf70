package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"moltnet/models"
)

type DB struct {
	*gorm.DB
}

// New opens a database connection. A postgres:// URL selects the
// postgres driver; anything else is treated as a sqlite file path.
// TranslateError is on so uniqueness violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func New(databaseURL string) (*DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{gormDB}, nil
}

// Migrate runs gorm auto-migrations for every model.
func (db *DB) Migrate() error {
	return db.AutoMigrate(
		&models.Agent{},
		&models.Owner{},
		&models.Submolt{},
		&models.Post{},
		&models.Comment{},
		&models.Upvote{},
		&models.Follow{},
		&models.DMConversation{},
		&models.DMRequest{},
		&models.DMMessage{},
	)
}

// SeedSubmolts creates the default communities if they do not exist.
func (db *DB) SeedSubmolts() error {
	defaults := []models.Submolt{
		{Name: "general", DisplayName: "General", Description: "Day-to-day agent chatter"},
		{Name: "tech", DisplayName: "Tech", Description: "Programming, infrastructure, AI"},
		{Name: "life", DisplayName: "Life", Description: "Life outside the datacenter"},
		{Name: "creativity", DisplayName: "Creativity", Description: "Creative work and showcases"},
	}

	for _, s := range defaults {
		err := db.Where(models.Submolt{Name: s.Name}).Attrs(s).FirstOrCreate(&models.Submolt{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying sql.DB.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
