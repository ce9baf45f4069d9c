package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

const categoryColumns = `id, name, parent_category_id, created_at, updated_at`

func scanCategory(row rowScanner) (*models.Category, error) {
	var (
		c                    models.Category
		parent               sql.NullInt64
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&c.ID, &c.Name, &parent, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.ParentCategoryID = int64Ptr(parent)
	c.CreatedAt, c.UpdatedAt = createdAt.Time, updatedAt.Time
	return &c, nil
}

// CreateCategory 创建分类
func (s *sqlStore) CreateCategory(ctx context.Context, c *models.Category) error {
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO categories (name, parent_category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), strings.TrimSpace(c.Name), nullableInt64(c.ParentCategoryID), ts, ts).Scan(&c.ID)
	if err != nil {
		return apperrors.Storage("create category", err)
	}
	c.CreatedAt, c.UpdatedAt = ts, ts
	return nil
}

// ListCategories 列出分类
func (s *sqlStore) ListCategories(ctx context.Context, filter models.TaxonomyFilter) ([]models.Category, error) {
	var (
		where []string
		args  []interface{}
	)
	if strings.TrimSpace(filter.Name) != "" {
		where = append(where, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Name))
	}
	if filter.ParentCategoryID != nil {
		where = append(where, `parent_category_id = ?`)
		args = append(args, *filter.ParentCategoryID)
	}
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, apperrors.Storage("list categories", err)
	}
	defer rows.Close()

	list := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.Storage("scan category", err)
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate categories", err)
	}
	return list, nil
}

// GetCategory 获取分类
func (s *sqlStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, s.q(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, apperrors.Storage("get category", err)
	}
	return c, nil
}

// UpdateCategory 更新分类
func (s *sqlStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	ts := now()
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE categories SET name = ?, parent_category_id = ?, updated_at = ? WHERE id = ?`),
		strings.TrimSpace(c.Name), nullableInt64(c.ParentCategoryID), ts, c.ID)
	if err != nil {
		return apperrors.Storage("update category", err)
	}
	if err := rowsAffected(res, "category", c.ID); err != nil {
		return err
	}
	c.UpdatedAt = ts
	return nil
}

// DeleteCategory 删除分类
func (s *sqlStore) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM categories WHERE id = ?`), id)
	if err != nil {
		return apperrors.Storage("delete category", err)
	}
	return rowsAffected(res, "category", id)
}
