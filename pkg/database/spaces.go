package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

const spaceColumns = `id, business_key, language, name, description, is_active, created_at, updated_at`

func scanSpace(row rowScanner) (*models.Space, error) {
	var (
		sp                   models.Space
		description          sql.NullString
		createdAt, updatedAt dbTime
	)
	if err := row.Scan(&sp.ID, &sp.BusinessKey, &sp.Language, &sp.Name, &description, &sp.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sp.Description = stringPtr(description)
	sp.CreatedAt, sp.UpdatedAt = createdAt.Time, updatedAt.Time
	return &sp, nil
}

// CreateSpace 供外部供给使用（HTTP 层不暴露写接口）
func (s *sqlStore) CreateSpace(ctx context.Context, sp *models.Space) error {
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO spaces (business_key, language, name, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`), strings.TrimSpace(sp.BusinessKey), strings.TrimSpace(sp.Language), sp.Name,
		nullableString(sp.Description), sp.IsActive, ts, ts).Scan(&sp.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Resource: "space", Name: sp.BusinessKey + "/" + sp.Language}
		}
		return apperrors.Storage("create space", err)
	}
	sp.CreatedAt, sp.UpdatedAt = ts, ts
	return nil
}

// ListActiveSpaces 列出启用的 Space
func (s *sqlStore) ListActiveSpaces(ctx context.Context) ([]models.Space, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE is_active = TRUE ORDER BY business_key ASC, language ASC`)
	if err != nil {
		return nil, apperrors.Storage("list spaces", err)
	}
	defer rows.Close()

	list := []models.Space{}
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, apperrors.Storage("scan space", err)
		}
		list = append(list, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate spaces", err)
	}
	return list, nil
}

// ResolveSpace 按 (businessKey, language) 精确查找启用的 Space
func (s *sqlStore) ResolveSpace(ctx context.Context, businessKey, language string) (*models.Space, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT `+spaceColumns+` FROM spaces
		WHERE business_key = ? AND language = ? AND is_active = TRUE
		LIMIT 2
	`), businessKey, language)
	if err != nil {
		return nil, apperrors.Storage("resolve space", err)
	}
	defer rows.Close()

	var found []*models.Space
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, apperrors.Storage("scan space", err)
		}
		found = append(found, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate spaces", err)
	}

	switch len(found) {
	case 0:
		return nil, apperrors.NotFound("space", businessKey+"/"+language)
	case 1:
		return found[0], nil
	default:
		// only reachable when the store was provisioned without uq_spaces_active_key
		return nil, apperrors.Storage("resolve space", fmt.Errorf("ambiguous space %s/%s", businessKey, language))
	}
}

// ListSpaceBusinessKeys 启用 Space 的去重业务键
func (s *sqlStore) ListSpaceBusinessKeys(ctx context.Context) ([]string, error) {
	return s.distinctSpaceColumn(ctx, "business_key")
}

// ListSpaceLanguages 启用 Space 的去重语言
func (s *sqlStore) ListSpaceLanguages(ctx context.Context) ([]string, error) {
	return s.distinctSpaceColumn(ctx, "language")
}

// distinctSpaceColumn only receives the two literal column names above.
func (s *sqlStore) distinctSpaceColumn(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT DISTINCT %[1]s FROM spaces WHERE is_active = TRUE ORDER BY %[1]s ASC`, column))
	if err != nil {
		return nil, apperrors.Storage("list space "+column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperrors.Storage("scan space "+column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate space "+column, err)
	}
	return values, nil
}
