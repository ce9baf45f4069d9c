package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"intranet-portal-backend/pkg/logger"
)

// SQLiteDatabase 本地 SQLite 数据库实现（开发与测试使用）
type SQLiteDatabase struct {
	*sqlStore
}

// NewSQLiteDatabase opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a throwaway store.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = ":memory:"
	}

	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		params += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", "file:"+path+"?"+params)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// 单连接：串行化写入，同时保证 :memory: 数据库在连接间共享
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteDatabase{sqlStore: newSQLStore(db, sqliteDialect{})}
	if err := store.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	log := logger.L()
	log.Info().Str("path", path).Msg("🗄️  Using SQLite database")
	return store, nil
}

type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

func (sqliteDialect) rebind(query string) string { return query }

func (sqliteDialect) isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}

func (sqliteDialect) schema() []string {
	return sqliteSchema
}
