package models

import "time"

// User is an application account. Accounts are soft-deleted by flipping
// Active; messaging code never hard-deletes a user row.
type User struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ExternalUID string    `json:"external_uid" gorm:"type:varchar(64);uniqueIndex;not null"` // identity-provider subject
	DisplayName string    `json:"display_name" gorm:"type:varchar(120);not null"`
	Email       string    `json:"email" gorm:"type:varchar(190);uniqueIndex;not null"`
	Password    string    `json:"-" gorm:"type:varchar(255);not null"`
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
