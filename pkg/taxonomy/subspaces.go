// Package taxonomy implements the rules of the subspace tree on top of the store.
package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/models"
)

// SubspaceInput carries the fields of a create or update request; nil means absent.
type SubspaceInput struct {
	Name        *string
	Parent      models.ParentFilter
	IsPublished *bool
	Visibility  *string
	Description *string
	CreatedBy   *int64
}

// SubspaceService 子空间树
type SubspaceService struct {
	db  database.DatabaseInterface
	log zerolog.Logger
}

// NewSubspaceService 创建子空间服务
func NewSubspaceService(db database.DatabaseInterface, log zerolog.Logger) *SubspaceService {
	return &SubspaceService{db: db, log: log}
}

// EnsureDefaultRoot creates the canonical root if it is missing.
func (s *SubspaceService) EnsureDefaultRoot(ctx context.Context) error {
	return s.db.EnsureDefaultSubspace(ctx)
}

// FindAll lists subspaces, making sure the canonical root exists first.
func (s *SubspaceService) FindAll(ctx context.Context, filter models.SubspaceFilter) ([]models.Subspace, error) {
	if err := s.EnsureDefaultRoot(ctx); err != nil {
		return nil, err
	}
	return s.db.ListSubspaces(ctx, filter)
}

// Get 获取单个子空间
func (s *SubspaceService) Get(ctx context.Context, id int64) (*models.Subspace, error) {
	return s.db.GetSubspace(ctx, id)
}

// Root returns the canonical root, creating it if needed.
func (s *SubspaceService) Root(ctx context.Context) (*models.Subspace, error) {
	if err := s.EnsureDefaultRoot(ctx); err != nil {
		return nil, err
	}
	roots, err := s.db.ListSubspaces(ctx, models.SubspaceFilter{
		Parent: models.ParentFilter{Set: true},
		Name:   models.DefaultSubspaceName,
	})
	if err != nil {
		return nil, err
	}
	for i := range roots {
		if roots[i].IsDefaultRoot() {
			return &roots[i], nil
		}
	}
	return nil, apperrors.NotFound("subspace", models.DefaultSubspaceName)
}

// Create adds a node. Without a parent the node is attached under the canonical
// root; only the root itself has a null parent.
func (s *SubspaceService) Create(ctx context.Context, in SubspaceInput) (*models.Subspace, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, &apperrors.MissingRequiredFieldError{Field: "name"}
	}

	sp := &models.Subspace{
		Name:        strings.TrimSpace(*in.Name),
		CreatedBy:   in.CreatedBy,
		Description: in.Description,
		Visibility:  "public",
	}
	if in.IsPublished != nil {
		sp.IsPublished = *in.IsPublished
	}
	if in.Visibility != nil && strings.TrimSpace(*in.Visibility) != "" {
		sp.Visibility = strings.TrimSpace(*in.Visibility)
	}

	if in.Parent.Set && in.Parent.ID != nil {
		if _, err := s.db.GetSubspace(ctx, *in.Parent.ID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, &apperrors.InvalidFieldError{
					Field:  "parentSubspaceId",
					Reason: fmt.Sprintf("subspace %d does not exist", *in.Parent.ID),
				}
			}
			return nil, err
		}
		sp.ParentSubspaceID = in.Parent.ID
	} else {
		root, err := s.Root(ctx)
		if err != nil {
			return nil, err
		}
		sp.ParentSubspaceID = &root.ID
	}

	if err := s.db.CreateSubspace(ctx, sp); err != nil {
		return nil, err
	}
	s.log.Info().Int64("subspace_id", sp.ID).Str("name", sp.Name).Msg("✅ Subspace created")
	return sp, nil
}

// Update applies the present fields of in. Moving a node under itself or one
// of its descendants is rejected with CycleError.
func (s *SubspaceService) Update(ctx context.Context, id int64, in SubspaceInput) (*models.Subspace, error) {
	sp, err := s.db.GetSubspace(ctx, id)
	if err != nil {
		return nil, err
	}
	root := sp.IsDefaultRoot()

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &apperrors.MissingRequiredFieldError{Field: "name"}
		}
		if root && name != sp.Name {
			return nil, &apperrors.ConflictError{Message: "the default subspace cannot be renamed"}
		}
		sp.Name = name
	}

	if in.Parent.Set {
		if root {
			return nil, &apperrors.ConflictError{Message: "the default subspace cannot be moved"}
		}
		if in.Parent.ID == nil {
			return nil, &apperrors.InvalidFieldError{Field: "parentSubspaceId", Reason: "only the default subspace may be top-level"}
		}
		if err := s.checkParent(ctx, id, *in.Parent.ID); err != nil {
			return nil, err
		}
		sp.ParentSubspaceID = in.Parent.ID
	}

	if in.IsPublished != nil {
		sp.IsPublished = *in.IsPublished
	}
	if in.Visibility != nil && strings.TrimSpace(*in.Visibility) != "" {
		sp.Visibility = strings.TrimSpace(*in.Visibility)
	}
	if in.Description != nil {
		sp.Description = in.Description
	}

	if err := s.db.UpdateSubspace(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// checkParent walks up from parentID; reaching id means the move would form a cycle.
func (s *SubspaceService) checkParent(ctx context.Context, id, parentID int64) error {
	seen := map[int64]bool{}
	cur := parentID
	for {
		if cur == id {
			return &apperrors.CycleError{ID: id, ParentID: parentID}
		}
		if seen[cur] {
			// pre-existing loop above the new parent; refuse to attach to it
			return &apperrors.CycleError{ID: id, ParentID: parentID}
		}
		seen[cur] = true

		node, err := s.db.GetSubspace(ctx, cur)
		if err != nil {
			if apperrors.IsNotFound(err) && cur == parentID {
				return &apperrors.InvalidFieldError{
					Field:  "parentSubspaceId",
					Reason: fmt.Sprintf("subspace %d does not exist", parentID),
				}
			}
			return err
		}
		if node.ParentSubspaceID == nil {
			return nil
		}
		cur = *node.ParentSubspaceID
	}
}

// Delete removes a leaf node. The canonical root and nodes with children stay.
func (s *SubspaceService) Delete(ctx context.Context, id int64) error {
	sp, err := s.db.GetSubspace(ctx, id)
	if err != nil {
		return err
	}
	if sp.IsDefaultRoot() {
		return &apperrors.ConflictError{Message: "the default subspace cannot be deleted"}
	}
	n, err := s.db.CountSubspaceChildren(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &apperrors.ConflictError{Message: fmt.Sprintf("subspace %d still has %d child subspaces", id, n)}
	}
	return s.db.DeleteSubspace(ctx, id)
}
