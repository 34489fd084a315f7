package models

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Open connects to the MySQL instance described by dsn.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates the messaging tables. Message must be migrated
// before Conversation so the last-message foreign key can be created.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Message{},
		&Conversation{},
		&ConversationParticipant{},
	)
}
