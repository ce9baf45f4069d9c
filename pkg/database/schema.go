package database

// postgresSchema 建表语句（PostgreSQL）
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		parent_category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS places (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		type TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_slug ON tags (slug)`,
	`CREATE TABLE IF NOT EXISTS subspaces (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		parent_subspace_id BIGINT REFERENCES subspaces(id),
		is_published BOOLEAN NOT NULL DEFAULT FALSE,
		visibility TEXT NOT NULL DEFAULT 'public',
		created_by BIGINT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_subspaces_default_root
		ON subspaces (name) WHERE parent_subspace_id IS NULL AND name = 'MFTBC'`,
	`CREATE INDEX IF NOT EXISTS idx_subspaces_parent ON subspaces (parent_subspace_id)`,
	`CREATE TABLE IF NOT EXISTS spaces (
		id BIGSERIAL PRIMARY KEY,
		business_key TEXT NOT NULL,
		language TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_spaces_active_key
		ON spaces (business_key, language) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS contents (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		rendered_body TEXT NOT NULL,
		publish_target TEXT NOT NULL,
		category_id BIGINT,
		subspace_id BIGINT,
		place_id BIGINT,
		restricted_comments BOOLEAN NOT NULL DEFAULT FALSE,
		is_place_scoped BOOLEAN NOT NULL DEFAULT FALSE,
		author_id BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'published',
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_publish_target ON contents (publish_target)`,
	`CREATE TABLE IF NOT EXISTS content_tags (
		content_id BIGINT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (content_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS content_images (
		id BIGSERIAL PRIMARY KEY,
		content_id BIGINT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS content_attachments (
		id BIGSERIAL PRIMARY KEY,
		content_id BIGINT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_size BIGINT NOT NULL DEFAULT 0,
		mime_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// sqliteSchema 建表语句（SQLite）
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		parent_category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS places (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		type TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_slug ON tags (slug)`,
	`CREATE TABLE IF NOT EXISTS subspaces (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		parent_subspace_id INTEGER REFERENCES subspaces(id),
		is_published BOOLEAN NOT NULL DEFAULT 0,
		visibility TEXT NOT NULL DEFAULT 'public',
		created_by INTEGER,
		description TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_subspaces_default_root
		ON subspaces (name) WHERE parent_subspace_id IS NULL AND name = 'MFTBC'`,
	`CREATE INDEX IF NOT EXISTS idx_subspaces_parent ON subspaces (parent_subspace_id)`,
	`CREATE TABLE IF NOT EXISTS spaces (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_key TEXT NOT NULL,
		language TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_spaces_active_key
		ON spaces (business_key, language) WHERE is_active = 1`,
	`CREATE TABLE IF NOT EXISTS contents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		rendered_body TEXT NOT NULL,
		publish_target TEXT NOT NULL,
		category_id INTEGER,
		subspace_id INTEGER,
		place_id INTEGER,
		restricted_comments BOOLEAN NOT NULL DEFAULT 0,
		is_place_scoped BOOLEAN NOT NULL DEFAULT 0,
		author_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'published',
		published_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_publish_target ON contents (publish_target)`,
	`CREATE TABLE IF NOT EXISTS content_tags (
		content_id INTEGER NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (content_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS content_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content_id INTEGER NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS content_attachments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content_id INTEGER NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_size INTEGER NOT NULL DEFAULT 0,
		mime_type TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}
