package models

import "time"

// DefaultSubspaceName is the reserved name of the canonical root subspace.
const DefaultSubspaceName = "MFTBC"

// Subspace is a node in the self-referential container hierarchy.
type Subspace struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	ParentSubspaceID *int64    `json:"parentSubspaceId" db:"parent_subspace_id"`
	IsPublished      bool      `json:"isPublished" db:"is_published"`
	Visibility       string    `json:"visibility" db:"visibility"`
	CreatedBy        *int64    `json:"createdBy" db:"created_by"`
	Description      *string   `json:"description" db:"description"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// IsDefaultRoot reports whether s is the canonical root.
func (s *Subspace) IsDefaultRoot() bool {
	return s.Name == DefaultSubspaceName && s.ParentSubspaceID == nil
}

// ParentFilter distinguishes "no filter", "roots only" and "children of id".
type ParentFilter struct {
	Set bool   // false: no filter
	ID  *int64 // nil with Set: only root-level nodes
}

// SubspaceFilter 子空间列表查询条件
type SubspaceFilter struct {
	Parent      ParentFilter
	Name        string
	IsPublished *bool
	Visibility  string
}
