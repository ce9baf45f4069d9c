package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

const subspaceColumns = `id, name, parent_subspace_id, is_published, visibility, created_by, description, created_at, updated_at`

func scanSubspace(row rowScanner) (*models.Subspace, error) {
	var (
		sp                   models.Subspace
		parent, createdBy    sql.NullInt64
		description          sql.NullString
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&sp.ID, &sp.Name, &parent, &sp.IsPublished, &sp.Visibility, &createdBy, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sp.ParentSubspaceID = int64Ptr(parent)
	sp.CreatedBy = int64Ptr(createdBy)
	sp.Description = stringPtr(description)
	sp.CreatedAt, sp.UpdatedAt = createdAt.Time, updatedAt.Time
	return &sp, nil
}

// CreateSubspace 创建子空间
func (s *sqlStore) CreateSubspace(ctx context.Context, sp *models.Subspace) error {
	if sp.Visibility == "" {
		sp.Visibility = "public"
	}
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO subspaces (name, parent_subspace_id, is_published, visibility, created_by, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), strings.TrimSpace(sp.Name), nullableInt64(sp.ParentSubspaceID), sp.IsPublished, sp.Visibility,
		nullableInt64(sp.CreatedBy), nullableString(sp.Description), ts, ts).Scan(&sp.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Resource: "subspace", Name: sp.Name}
		}
		return apperrors.Storage("create subspace", err)
	}
	sp.CreatedAt, sp.UpdatedAt = ts, ts
	return nil
}

// EnsureDefaultSubspace 确保默认根节点存在。
// The partial unique index on the reserved root name makes the insert a no-op
// for every caller but the first, so concurrent calls never produce duplicates.
func (s *sqlStore) EnsureDefaultSubspace(ctx context.Context) error {
	var id int64
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id FROM subspaces WHERE name = ? AND parent_subspace_id IS NULL
	`), models.DefaultSubspaceName).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return apperrors.Storage("find default subspace", err)
	}

	ts := now()
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO subspaces (name, parent_subspace_id, is_published, visibility, created_at, updated_at)
		VALUES (?, NULL, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`), models.DefaultSubspaceName, true, "public", ts, ts)
	if err != nil && !s.dialect.isUniqueViolation(err) {
		return apperrors.Storage("create default subspace", err)
	}
	return nil
}

// ListSubspaces 列出子空间
func (s *sqlStore) ListSubspaces(ctx context.Context, filter models.SubspaceFilter) ([]models.Subspace, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Parent.Set {
		if filter.Parent.ID == nil {
			where = append(where, `parent_subspace_id IS NULL`)
		} else {
			where = append(where, `parent_subspace_id = ?`)
			args = append(args, *filter.Parent.ID)
		}
	}
	if strings.TrimSpace(filter.Name) != "" {
		where = append(where, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Name))
	}
	if filter.IsPublished != nil {
		where = append(where, `is_published = ?`)
		args = append(args, *filter.IsPublished)
	}
	if filter.Visibility != "" {
		where = append(where, `visibility = ?`)
		args = append(args, filter.Visibility)
	}

	query := `SELECT ` + subspaceColumns + ` FROM subspaces`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, apperrors.Storage("list subspaces", err)
	}
	defer rows.Close()

	list := []models.Subspace{}
	for rows.Next() {
		sp, err := scanSubspace(rows)
		if err != nil {
			return nil, apperrors.Storage("scan subspace", err)
		}
		list = append(list, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate subspaces", err)
	}
	return list, nil
}

// GetSubspace 获取子空间
func (s *sqlStore) GetSubspace(ctx context.Context, id int64) (*models.Subspace, error) {
	sp, err := scanSubspace(s.db.QueryRowContext(ctx, s.q(`SELECT `+subspaceColumns+` FROM subspaces WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("subspace", id)
		}
		return nil, apperrors.Storage("get subspace", err)
	}
	return sp, nil
}

// UpdateSubspace 更新子空间（全部字段）
func (s *sqlStore) UpdateSubspace(ctx context.Context, sp *models.Subspace) error {
	ts := now()
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE subspaces
		SET name = ?, parent_subspace_id = ?, is_published = ?, visibility = ?, description = ?, updated_at = ?
		WHERE id = ?
	`), strings.TrimSpace(sp.Name), nullableInt64(sp.ParentSubspaceID), sp.IsPublished, sp.Visibility,
		nullableString(sp.Description), ts, sp.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Resource: "subspace", Name: sp.Name}
		}
		return apperrors.Storage("update subspace", err)
	}
	if err := rowsAffected(res, "subspace", sp.ID); err != nil {
		return err
	}
	sp.UpdatedAt = ts
	return nil
}

// CountSubspaceChildren 统计直接子节点数量
func (s *sqlStore) CountSubspaceChildren(ctx context.Context, id int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM subspaces WHERE parent_subspace_id = ?`), id).Scan(&n); err != nil {
		return 0, apperrors.Storage("count subspace children", err)
	}
	return n, nil
}

// DeleteSubspace 删除子空间
func (s *sqlStore) DeleteSubspace(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM subspaces WHERE id = ?`), id)
	if err != nil {
		return apperrors.Storage("delete subspace", err)
	}
	return rowsAffected(res, "subspace", id)
}
