package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

// CreateUser 创建用户
func (s *sqlStore) CreateUser(ctx context.Context, user *models.User) error {
	ts := now()
	query := s.q(`
		INSERT INTO users (email, name, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(user.Email), user.Name, user.Avatar, ts, ts).Scan(&user.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Resource: "user", Name: user.Email}
		}
		return apperrors.Storage("create user", err)
	}
	user.CreatedAt, user.UpdatedAt = ts, ts
	return nil
}

// GetUserByID 根据ID获取用户
func (s *sqlStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var (
		u                    models.User
		createdAt, updatedAt dbTime
	)
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, email, name, avatar, created_at, updated_at
		FROM users WHERE id = ?
	`), id).Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, apperrors.Storage("get user", err)
	}
	u.CreatedAt, u.UpdatedAt = createdAt.Time, updatedAt.Time
	return &u, nil
}
