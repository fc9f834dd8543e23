package db

import (
	"log"

	"github.com/booksbridge/books-bridge/internal/db/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the SQLite database connection and runs migrations.
func InitDB(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(&models.Config{}, &models.ExtractionLog{}); err != nil {
		return nil, err
	}

	return db, nil
}

// GetValue retrieves a config value by key, or "" when unset.
func GetValue(db *gorm.DB, key string) string {
	var config models.Config
	if err := db.Where("key = ?", key).First(&config).Error; err != nil {
		return ""
	}
	return config.Value
}

// SetValue creates or updates a config value.
func SetValue(db *gorm.DB, key, value string) error {
	var existing models.Config
	if err := db.Where("key = ?", key).First(&existing).Error; err != nil {
		return db.Create(&models.Config{Key: key, Value: value}).Error
	}
	return db.Model(&models.Config{}).Where("key = ?", key).Update("value", value).Error
}

// DeleteValue removes a config key. Missing keys are not an error.
func DeleteValue(db *gorm.DB, key string) error {
	return db.Where("key = ?", key).Delete(&models.Config{}).Error
}

// MustSetValue sets a config value and logs instead of failing.
func MustSetValue(db *gorm.DB, key, value string) {
	if err := SetValue(db, key, value); err != nil {
		log.Printf("⚠️ Failed to persist config %s: %v", key, err)
	}
}
