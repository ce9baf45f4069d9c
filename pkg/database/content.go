package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

const contentColumns = `id, title, body, rendered_body, publish_target, category_id, subspace_id, place_id,
	restricted_comments, is_place_scoped, author_id, status, published_at, created_at, updated_at`

func scanContent(row rowScanner) (*models.ContentItem, error) {
	var (
		it                              models.ContentItem
		category, subspace, place       sql.NullInt64
		status                          string
		publishedAt, createdAt, updated dbTime
	)
	if err := row.Scan(&it.ID, &it.Title, &it.Body, &it.RenderedBody, &it.PublishTarget,
		&category, &subspace, &place, &it.RestrictedComments, &it.IsPlaceScoped, &it.AuthorID,
		&status, &publishedAt, &createdAt, &updated); err != nil {
		return nil, err
	}
	it.CategoryID, it.SubspaceID, it.PlaceID = int64Ptr(category), int64Ptr(subspace), int64Ptr(place)
	it.Status = models.ContentStatus(status)
	it.PublishedAt = publishedAt.ptr()
	it.CreatedAt, it.UpdatedAt = createdAt.Time, updated.Time
	return &it, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// CreateContent 创建内容
func (s *sqlStore) CreateContent(ctx context.Context, item *models.ContentItem) error {
	if item.Status == "" {
		item.Status = models.StatusPublished
	}
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO contents (title, body, rendered_body, publish_target, category_id, subspace_id, place_id,
			restricted_comments, is_place_scoped, author_id, status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), item.Title, item.Body, item.RenderedBody, item.PublishTarget,
		nullableInt64(item.CategoryID), nullableInt64(item.SubspaceID), nullableInt64(item.PlaceID),
		item.RestrictedComments, item.IsPlaceScoped, item.AuthorID, string(item.Status),
		nullableTime(item.PublishedAt), ts, ts).Scan(&item.ID)
	if err != nil {
		return apperrors.Storage("create content", err)
	}
	item.CreatedAt, item.UpdatedAt = ts, ts
	return nil
}

// GetContent 获取内容
func (s *sqlStore) GetContent(ctx context.Context, id int64) (*models.ContentItem, error) {
	it, err := scanContent(s.db.QueryRowContext(ctx, s.q(`SELECT `+contentColumns+` FROM contents WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("content", id)
		}
		return nil, apperrors.Storage("get content", err)
	}
	return it, nil
}

// ListContent 列出内容（最新优先）
func (s *sqlStore) ListContent(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.PublishTarget != "" {
		where = append(where, `publish_target = ?`)
		args = append(args, filter.PublishTarget)
	}
	if filter.CategoryID != nil {
		where = append(where, `category_id = ?`)
		args = append(args, *filter.CategoryID)
	}
	if filter.SubspaceID != nil {
		where = append(where, `subspace_id = ?`)
		args = append(args, *filter.SubspaceID)
	}
	if filter.PlaceID != nil {
		where = append(where, `place_id = ?`)
		args = append(args, *filter.PlaceID)
	}
	if filter.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(filter.Status))
	}
	if strings.TrimSpace(filter.Search) != "" {
		p := likePattern(filter.Search)
		where = append(where, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\')`)
		args = append(args, p, p)
	}

	limit := models.ClampContentLimit(filter.Limit)
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + contentColumns + ` FROM contents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, apperrors.Storage("list content", err)
	}
	defer rows.Close()

	list := []models.ContentItem{}
	for rows.Next() {
		it, err := scanContent(rows)
		if err != nil {
			return nil, apperrors.Storage("scan content", err)
		}
		list = append(list, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate content", err)
	}
	return list, nil
}

// contentPatchColumns 白名单：patch key -> 是否允许写 NULL
var contentPatchColumns = map[string]bool{
	"title":               false,
	"body":                false,
	"rendered_body":       false,
	"publish_target":      false,
	"category_id":         true,
	"subspace_id":         true,
	"place_id":            true,
	"restricted_comments": false,
	"is_place_scoped":     false,
	"author_id":           false,
	"status":              false,
	"published_at":        true,
}

// UpdateContentPartial 按 patch 部分更新内容；updated_at 总是刷新
func (s *sqlStore) UpdateContentPartial(ctx context.Context, id int64, patch map[string]interface{}) error {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	setClauses := make([]string, 0, len(keys)+1)
	args := make([]interface{}, 0, len(keys)+2)
	for _, k := range keys {
		nullable, ok := contentPatchColumns[k]
		if !ok {
			continue
		}
		v := patch[k]
		switch vv := v.(type) {
		case nil:
			if !nullable {
				continue
			}
		case *int64:
			v = nullableInt64(vv)
			if v == nil && !nullable {
				continue
			}
		case *time.Time:
			v = nullableTime(vv)
			if v == nil && !nullable {
				continue
			}
		case time.Time:
			v = vv.UTC()
		case models.ContentStatus:
			v = string(vv)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", k))
		args = append(args, v)
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, now(), id)

	query := fmt.Sprintf("UPDATE contents SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return apperrors.Storage("update content", err)
	}
	return rowsAffected(res, "content", id)
}

// DeleteContent 级联删除内容及其标签关联、图片、附件
func (s *sqlStore) DeleteContent(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM content_tags WHERE content_id = ?`,
			`DELETE FROM content_images WHERE content_id = ?`,
			`DELETE FROM content_attachments WHERE content_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, s.q(stmt), id); err != nil {
				return apperrors.Storage("delete content children", err)
			}
		}
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM contents WHERE id = ?`), id)
		if err != nil {
			return apperrors.Storage("delete content", err)
		}
		return rowsAffected(res, "content", id)
	})
}

// AddContentTags 追加标签关联（已存在的关联忽略）
func (s *sqlStore) AddContentTags(ctx context.Context, contentID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.linkTags(ctx, tx, contentID, tagIDs)
	})
}

// ReplaceContentTags 以 tagIDs 替换内容的全部标签关联
func (s *sqlStore) ReplaceContentTags(ctx context.Context, contentID int64, tagIDs []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM content_tags WHERE content_id = ?`), contentID); err != nil {
			return apperrors.Storage("clear content tags", err)
		}
		return s.linkTags(ctx, tx, contentID, tagIDs)
	})
}

// linkTags skips ids that do not name an existing tag.
func (s *sqlStore) linkTags(ctx context.Context, tx queryer, contentID int64, tagIDs []int64) error {
	stmt := s.q(`
		INSERT INTO content_tags (content_id, tag_id)
		SELECT ?, id FROM tags WHERE id = ?
		ON CONFLICT (content_id, tag_id) DO NOTHING
	`)
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, stmt, contentID, tagID); err != nil {
			return apperrors.Storage("link content tag", err)
		}
	}
	return nil
}

// ListContentTags 内容关联的标签（按名称排序）
func (s *sqlStore) ListContentTags(ctx context.Context, contentID int64) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT t.id, t.name, t.slug, t.created_at, t.updated_at
		FROM tags t
		JOIN content_tags ct ON ct.tag_id = t.id
		WHERE ct.content_id = ?
		ORDER BY t.name ASC
	`), contentID)
	if err != nil {
		return nil, apperrors.Storage("list content tags", err)
	}
	defer rows.Close()

	list := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, apperrors.Storage("scan content tag", err)
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate content tags", err)
	}
	return list, nil
}

// AddContentImages 按给定顺序追加图片，position 接在已有图片之后
func (s *sqlStore) AddContentImages(ctx context.Context, contentID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		if err := tx.QueryRowContext(ctx, s.q(`SELECT COALESCE(MAX(position) + 1, 0) FROM content_images WHERE content_id = ?`), contentID).Scan(&next); err != nil {
			return apperrors.Storage("next image position", err)
		}
		ts := now()
		stmt := s.q(`INSERT INTO content_images (content_id, url, position, created_at) VALUES (?, ?, ?, ?)`)
		for i, u := range urls {
			if _, err := tx.ExecContext(ctx, stmt, contentID, u, next+i, ts); err != nil {
				return apperrors.Storage("insert content image", err)
			}
		}
		return nil
	})
}

// ListContentImages 内容图片（按 position）
func (s *sqlStore) ListContentImages(ctx context.Context, contentID int64) ([]models.ContentImage, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, content_id, url, position, created_at
		FROM content_images WHERE content_id = ?
		ORDER BY position ASC, id ASC
	`), contentID)
	if err != nil {
		return nil, apperrors.Storage("list content images", err)
	}
	defer rows.Close()

	list := []models.ContentImage{}
	for rows.Next() {
		var (
			img       models.ContentImage
			createdAt dbTime
		)
		if err := rows.Scan(&img.ID, &img.ContentID, &img.URL, &img.Position, &createdAt); err != nil {
			return nil, apperrors.Storage("scan content image", err)
		}
		img.CreatedAt = createdAt.Time
		list = append(list, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate content images", err)
	}
	return list, nil
}

// AddContentAttachments 追加附件
func (s *sqlStore) AddContentAttachments(ctx context.Context, contentID int64, atts []models.ContentAttachment) error {
	if len(atts) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ts := now()
		for i := range atts {
			a := &atts[i]
			err := tx.QueryRowContext(ctx, s.q(`
				INSERT INTO content_attachments (content_id, url, file_name, file_size, mime_type, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
				RETURNING id
			`), contentID, a.URL, a.FileName, a.FileSize, a.MimeType, ts).Scan(&a.ID)
			if err != nil {
				return apperrors.Storage("insert content attachment", err)
			}
			a.ContentID, a.CreatedAt = contentID, ts
		}
		return nil
	})
}

// ListContentAttachments 内容附件（按插入顺序）
func (s *sqlStore) ListContentAttachments(ctx context.Context, contentID int64) ([]models.ContentAttachment, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, content_id, url, file_name, file_size, mime_type, created_at
		FROM content_attachments WHERE content_id = ?
		ORDER BY id ASC
	`), contentID)
	if err != nil {
		return nil, apperrors.Storage("list content attachments", err)
	}
	defer rows.Close()

	list := []models.ContentAttachment{}
	for rows.Next() {
		var (
			a         models.ContentAttachment
			createdAt dbTime
		)
		if err := rows.Scan(&a.ID, &a.ContentID, &a.URL, &a.FileName, &a.FileSize, &a.MimeType, &createdAt); err != nil {
			return nil, apperrors.Storage("scan content attachment", err)
		}
		a.CreatedAt = createdAt.Time
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate content attachments", err)
	}
	return list, nil
}
