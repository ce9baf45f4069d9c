package models

import "time"

// Category 分类（最多一层父分类）
type Category struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	ParentCategoryID *int64    `json:"parentCategoryId" db:"parent_category_id"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}
