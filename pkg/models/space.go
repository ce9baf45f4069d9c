package models

import "time"

// Space is a localized workspace resolved by (business key, language).
type Space struct {
	ID          int64     `json:"id" db:"id"`
	BusinessKey string    `json:"businessKey" db:"business_key"`
	Language    string    `json:"language" db:"language"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
