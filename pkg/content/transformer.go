package content

import (
	"time"

	"intranet-portal-backend/pkg/models"
)

// View is the external representation of a content item. Every key is always
// present; absent references serialize as null and empty children as [].
type View struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	Content         string           `json:"content"`
	ContentHTML     string           `json:"contentHtml"`
	PublishTo       string           `json:"publishTo"`
	CategoryID      *int64           `json:"categoryId"`
	SpaceID         *int64           `json:"spaceId"`
	PlaceID         *int64           `json:"placeId"`
	Place           *PlaceView       `json:"place"`
	RestrictReplies bool             `json:"restrictReplies"`
	IsPlaceBlog     bool             `json:"isPlaceBlog"`
	Status          string           `json:"status"`
	PublishedAt     *time.Time       `json:"publishedAt"`
	Author          AuthorView       `json:"author"`
	Tags            []TagView        `json:"tags"`
	Images          []ImageView      `json:"images"`
	Attachments     []AttachmentView `json:"attachments"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// AuthorView 作者信息；用户记录缺失时只有 id
type AuthorView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type PlaceView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

type TagView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ImageView struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type AttachmentView struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Transform assembles the external view. It performs no I/O; nil slices,
// a nil author and a nil place are all valid inputs.
func Transform(item *models.ContentItem, tags []models.Tag, images []models.ContentImage,
	atts []models.ContentAttachment, author *models.User, place *models.Place) View {
	v := View{
		ID:              item.ID,
		Title:           item.Title,
		Content:         item.Body,
		ContentHTML:     item.RenderedBody,
		PublishTo:       item.PublishTarget,
		CategoryID:      item.CategoryID,
		SpaceID:         item.SubspaceID,
		PlaceID:         item.PlaceID,
		RestrictReplies: item.RestrictedComments,
		IsPlaceBlog:     item.IsPlaceScoped,
		Status:          string(item.Status),
		PublishedAt:     item.PublishedAt,
		Author:          AuthorView{ID: item.AuthorID},
		Tags:            make([]TagView, 0, len(tags)),
		Images:          make([]ImageView, 0, len(images)),
		Attachments:     make([]AttachmentView, 0, len(atts)),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if author != nil {
		v.Author.Name, v.Author.Email, v.Author.Avatar = author.Name, author.Email, author.Avatar
	}
	if place != nil {
		v.Place = &PlaceView{ID: place.ID, Name: place.Name, Description: place.Description, Type: place.Type}
	}
	for _, t := range tags {
		v.Tags = append(v.Tags, TagView{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	for _, img := range images {
		v.Images = append(v.Images, ImageView{ID: img.ID, URL: img.URL, Position: img.Position})
	}
	for _, a := range atts {
		v.Attachments = append(v.Attachments, AttachmentView{
			ID: a.ID, URL: a.URL, Name: a.FileName, Size: a.FileSize, ContentType: a.MimeType,
		})
	}
	return v
}
