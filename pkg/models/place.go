package models

import "time"

// Place 地点
type Place struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Type        *string   `json:"type" db:"type"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// TaxonomyFilter is shared by the flat taxonomy listings.
type TaxonomyFilter struct {
	Name string // case-insensitive substring
	// ParentCategoryID narrows categories; ignored elsewhere.
	ParentCategoryID *int64
}
