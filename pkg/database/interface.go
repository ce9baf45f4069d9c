package database

import (
	"context"
	"fmt"

	"intranet-portal-backend/pkg/models"
)

// DatabaseInterface 定义数据库访问接口
type DatabaseInterface interface {
	// 用户（内容作者）
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// 标签
	// CreateTag is the strict path: an existing name yields DuplicateNameError.
	CreateTag(ctx context.Context, tag *models.Tag) error
	// FindOrCreateTag returns the tag with exactly this name, creating it if needed.
	// Safe under concurrent callers introducing the same name.
	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context, filter models.TaxonomyFilter) ([]models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	UpdateTag(ctx context.Context, tag *models.Tag) error
	DeleteTag(ctx context.Context, id int64) error

	// 分类
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context, filter models.TaxonomyFilter) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// 地点
	CreatePlace(ctx context.Context, p *models.Place) error
	ListPlaces(ctx context.Context, filter models.TaxonomyFilter) ([]models.Place, error)
	GetPlace(ctx context.Context, id int64) (*models.Place, error)
	UpdatePlace(ctx context.Context, p *models.Place) error
	DeletePlace(ctx context.Context, id int64) error

	// 子空间
	CreateSubspace(ctx context.Context, s *models.Subspace) error
	ListSubspaces(ctx context.Context, filter models.SubspaceFilter) ([]models.Subspace, error)
	GetSubspace(ctx context.Context, id int64) (*models.Subspace, error)
	UpdateSubspace(ctx context.Context, s *models.Subspace) error
	DeleteSubspace(ctx context.Context, id int64) error
	CountSubspaceChildren(ctx context.Context, id int64) (int, error)
	// EnsureDefaultSubspace creates the canonical root if absent; idempotent
	// and safe under concurrent invocation.
	EnsureDefaultSubspace(ctx context.Context) error

	// Space 矩阵（只读；CreateSpace 仅用于外部供给）
	CreateSpace(ctx context.Context, s *models.Space) error
	ListActiveSpaces(ctx context.Context) ([]models.Space, error)
	ResolveSpace(ctx context.Context, businessKey, language string) (*models.Space, error)
	ListSpaceBusinessKeys(ctx context.Context) ([]string, error)
	ListSpaceLanguages(ctx context.Context) ([]string, error)

	// 内容
	CreateContent(ctx context.Context, item *models.ContentItem) error
	GetContent(ctx context.Context, id int64) (*models.ContentItem, error)
	ListContent(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error)
	// UpdateContentPartial performs a partial update using the provided patch map.
	// Allowed keys: "title","body","rendered_body","publish_target","category_id",
	// "subspace_id","place_id","restricted_comments","is_place_scoped","author_id",
	// "status","published_at".
	UpdateContentPartial(ctx context.Context, id int64, patch map[string]interface{}) error
	// DeleteContent removes the item with its tag links, images and attachments.
	DeleteContent(ctx context.Context, id int64) error

	// 内容子记录
	AddContentTags(ctx context.Context, contentID int64, tagIDs []int64) error
	ReplaceContentTags(ctx context.Context, contentID int64, tagIDs []int64) error
	ListContentTags(ctx context.Context, contentID int64) ([]models.Tag, error)
	AddContentImages(ctx context.Context, contentID int64, urls []string) error
	ListContentImages(ctx context.Context, contentID int64) ([]models.ContentImage, error)
	AddContentAttachments(ctx context.Context, contentID int64, atts []models.ContentAttachment) error
	ListContentAttachments(ctx context.Context, contentID int64) ([]models.ContentAttachment, error)

	// 维护
	Migrate(ctx context.Context) error
	Driver() string

	// 健康检查
	HealthCheck() error

	// 关闭连接
	Close() error
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver      string // "postgres" or "sqlite"
	PostgresDSN string
	SQLitePath  string
	Debug       bool
}

// NewDatabase 根据配置选择数据库实现
func NewDatabase(config DatabaseConfig) (DatabaseInterface, error) {
	switch config.Driver {
	case "postgres":
		if config.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
		db, err := NewPostgresDatabase(config.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "sqlite", "":
		db, err := NewSQLiteDatabase(config.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}
