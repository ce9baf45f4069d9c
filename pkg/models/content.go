package models

import "time"

// ContentStatus 内容发布状态
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// Valid reports whether s is a known status.
func (s ContentStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// PublishTargetHR is the only publish target that carries a category.
const PublishTargetHR = "HR"

// ContentItem is the generic publishable unit (news, blog, document, activity...).
type ContentItem struct {
	ID                 int64         `json:"id" db:"id"`
	Title              string        `json:"title" db:"title"`
	Body               string        `json:"body" db:"body"`
	RenderedBody       string        `json:"renderedBody" db:"rendered_body"`
	PublishTarget      string        `json:"publishTarget" db:"publish_target"`
	CategoryID         *int64        `json:"categoryId,omitempty" db:"category_id"`
	SubspaceID         *int64        `json:"subspaceId,omitempty" db:"subspace_id"`
	PlaceID            *int64        `json:"placeId,omitempty" db:"place_id"`
	RestrictedComments bool          `json:"restrictedComments" db:"restricted_comments"`
	IsPlaceScoped      bool          `json:"isPlaceScoped" db:"is_place_scoped"`
	AuthorID           int64         `json:"authorId" db:"author_id"`
	Status             ContentStatus `json:"status" db:"status"`
	PublishedAt        *time.Time    `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt          time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time     `json:"updatedAt" db:"updated_at"`
}

// ContentImage is an image URL owned by a ContentItem.
type ContentImage struct {
	ID        int64     `json:"id" db:"id"`
	ContentID int64     `json:"contentId" db:"content_id"`
	URL       string    `json:"url" db:"url"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ContentAttachment is a downloadable file owned by a ContentItem.
type ContentAttachment struct {
	ID        int64     `json:"id" db:"id"`
	ContentID int64     `json:"contentId" db:"content_id"`
	URL       string    `json:"url" db:"url"`
	FileName  string    `json:"fileName" db:"file_name"`
	FileSize  int64     `json:"fileSize" db:"file_size"`
	MimeType  string    `json:"mimeType" db:"mime_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ContentFilter 列表查询条件
type ContentFilter struct {
	PublishTarget string
	CategoryID    *int64
	SubspaceID    *int64
	PlaceID       *int64
	Status        ContentStatus
	Search        string
	Limit         int
	Offset        int
}

// 列表分页上限
const (
	DefaultContentLimit = 50
	MaxContentLimit     = 200
)

// ClampContentLimit applies the default page size and the hard cap.
func ClampContentLimit(limit int) int {
	if limit <= 0 {
		return DefaultContentLimit
	}
	if limit > MaxContentLimit {
		return MaxContentLimit
	}
	return limit
}
