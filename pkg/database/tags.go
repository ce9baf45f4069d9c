package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

const tagColumns = `id, name, slug, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTag(row rowScanner) (*models.Tag, error) {
	var (
		t                    models.Tag
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt, t.UpdatedAt = createdAt.Time, updatedAt.Time
	return &t, nil
}

// CreateTag 严格创建标签（重名返回 DuplicateNameError）
func (s *sqlStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	tag.Slug = models.Slugify(tag.Name)
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO tags (name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), tag.Name, tag.Slug, ts, ts).Scan(&tag.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Resource: "tag", Name: tag.Name}
		}
		return apperrors.Storage("create tag", err)
	}
	tag.CreatedAt, tag.UpdatedAt = ts, ts
	return nil
}

// FindOrCreateTag 按名称查找或创建标签。
// The insert is guarded by the unique name constraint; a concurrent winner
// turns our insert into a no-op and the re-read returns its row.
func (s *sqlStore) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperrors.MissingRequiredFieldError{Field: "name"}
	}

	selectByName := s.q(`SELECT ` + tagColumns + ` FROM tags WHERE name = ?`)
	tag, err := scanTag(s.db.QueryRowContext(ctx, selectByName, name))
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Storage("find tag", err)
	}

	ts := now()
	if _, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO tags (name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING
	`), name, models.Slugify(name), ts, ts); err != nil && !s.dialect.isUniqueViolation(err) {
		return nil, apperrors.Storage("insert tag", err)
	}

	tag, err = scanTag(s.db.QueryRowContext(ctx, selectByName, name))
	if err != nil {
		return nil, apperrors.Storage("re-read tag", err)
	}
	return tag, nil
}

// ListTags 列出标签（名称不区分大小写的子串过滤）
func (s *sqlStore) ListTags(ctx context.Context, filter models.TaxonomyFilter) ([]models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags`
	var args []interface{}
	if strings.TrimSpace(filter.Name) != "" {
		query += ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(filter.Name))
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, apperrors.Storage("list tags", err)
	}
	defer rows.Close()

	list := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, apperrors.Storage("scan tag", err)
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate tags", err)
	}
	return list, nil
}

// GetTag 获取标签
func (s *sqlStore) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := scanTag(s.db.QueryRowContext(ctx, s.q(`SELECT `+tagColumns+` FROM tags WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("tag", id)
		}
		return nil, apperrors.Storage("get tag", err)
	}
	return tag, nil
}

// UpdateTag 更新标签名称（slug 随名称重新生成）
func (s *sqlStore) UpdateTag(ctx context.Context, tag *models.Tag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	tag.Slug = models.Slugify(tag.Name)
	ts := now()
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE tags SET name = ?, slug = ?, updated_at = ? WHERE id = ?`),
		tag.Name, tag.Slug, ts, tag.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Resource: "tag", Name: tag.Name}
		}
		return apperrors.Storage("update tag", err)
	}
	if err := rowsAffected(res, "tag", tag.ID); err != nil {
		return err
	}
	tag.UpdatedAt = ts
	return nil
}

// DeleteTag 删除标签及其内容关联
func (s *sqlStore) DeleteTag(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM content_tags WHERE tag_id = ?`), id); err != nil {
			return apperrors.Storage("unlink tag", err)
		}
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM tags WHERE id = ?`), id)
		if err != nil {
			return apperrors.Storage("delete tag", err)
		}
		return rowsAffected(res, "tag", id)
	})
}
