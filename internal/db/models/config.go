package models

import "time"

// Config stores application settings and persisted credentials as key/value pairs
type Config struct {
	Key       string    `gorm:"primaryKey"` // Config key name
	Value     string    // Config value
	CreatedAt time.Time
	UpdatedAt time.Time
}
