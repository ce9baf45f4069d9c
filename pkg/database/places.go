package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

const placeColumns = `id, name, description, type, created_at, updated_at`

func scanPlace(row rowScanner) (*models.Place, error) {
	var (
		p                    models.Place
		description, typ     sql.NullString
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &typ, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Description, p.Type = stringPtr(description), stringPtr(typ)
	p.CreatedAt, p.UpdatedAt = createdAt.Time, updatedAt.Time
	return &p, nil
}

// CreatePlace 创建地点
func (s *sqlStore) CreatePlace(ctx context.Context, p *models.Place) error {
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO places (name, description, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), strings.TrimSpace(p.Name), nullableString(p.Description), nullableString(p.Type), ts, ts).Scan(&p.ID)
	if err != nil {
		return apperrors.Storage("create place", err)
	}
	p.CreatedAt, p.UpdatedAt = ts, ts
	return nil
}

// ListPlaces 列出地点
func (s *sqlStore) ListPlaces(ctx context.Context, filter models.TaxonomyFilter) ([]models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places`
	var args []interface{}
	if strings.TrimSpace(filter.Name) != "" {
		query += ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(filter.Name))
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, apperrors.Storage("list places", err)
	}
	defer rows.Close()

	list := []models.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, apperrors.Storage("scan place", err)
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate places", err)
	}
	return list, nil
}

// GetPlace 获取地点
func (s *sqlStore) GetPlace(ctx context.Context, id int64) (*models.Place, error) {
	p, err := scanPlace(s.db.QueryRowContext(ctx, s.q(`SELECT `+placeColumns+` FROM places WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("place", id)
		}
		return nil, apperrors.Storage("get place", err)
	}
	return p, nil
}

// UpdatePlace 更新地点
func (s *sqlStore) UpdatePlace(ctx context.Context, p *models.Place) error {
	ts := now()
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE places SET name = ?, description = ?, type = ?, updated_at = ? WHERE id = ?`),
		strings.TrimSpace(p.Name), nullableString(p.Description), nullableString(p.Type), ts, p.ID)
	if err != nil {
		return apperrors.Storage("update place", err)
	}
	if err := rowsAffected(res, "place", p.ID); err != nil {
		return err
	}
	p.UpdatedAt = ts
	return nil
}

// DeletePlace 删除地点（引用它的内容保留 place_id，读取时视为无地点）
func (s *sqlStore) DeletePlace(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM places WHERE id = ?`), id)
	if err != nil {
		return apperrors.Storage("delete place", err)
	}
	return rowsAffected(res, "place", id)
}
