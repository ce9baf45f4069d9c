package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet-portal-backend/pkg/models"
)

func TestTransformEmptyChildrenKeepKeys(t *testing.T) {
	item := &models.ContentItem{
		ID: 1, Title: "t", Body: "b", RenderedBody: "b", PublishTarget: "NEWS",
		AuthorID: 9, Status: models.StatusDraft, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	v := Transform(item, nil, nil, nil, nil, nil)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))

	for _, key := range []string{"tags", "images", "attachments"} {
		require.Contains(t, out, key)
		assert.Equal(t, []interface{}{}, out[key], key)
	}
	for _, key := range []string{"place", "placeId", "categoryId", "spaceId", "publishedAt"} {
		require.Contains(t, out, key)
		assert.Nil(t, out[key], key)
	}
	author := out["author"].(map[string]interface{})
	assert.Equal(t, float64(9), author["id"])
	assert.Equal(t, "", author["name"])
}

func TestTransformMapsStorageNames(t *testing.T) {
	desc := "3F"
	item := &models.ContentItem{
		ID: 2, Title: "Hello", Body: "# hi", RenderedBody: "<h1>hi</h1>", PublishTarget: "HR",
		CategoryID: idp(4), SubspaceID: idp(5), PlaceID: idp(6),
		RestrictedComments: true, IsPlaceScoped: true, AuthorID: 1, Status: models.StatusPublished,
	}
	v := Transform(item,
		[]models.Tag{{ID: 1, Name: "News", Slug: "news"}},
		[]models.ContentImage{{ID: 10, URL: "/a.png", Position: 0}},
		[]models.ContentAttachment{{ID: 20, URL: "/f.pdf", FileName: "f.pdf", FileSize: 5, MimeType: "application/pdf"}},
		&models.User{ID: 1, Name: "Admin", Email: "admin@example.com"},
		&models.Place{ID: 6, Name: "Tokyo", Description: &desc},
	)

	assert.Equal(t, "# hi", v.Content)
	assert.Equal(t, "<h1>hi</h1>", v.ContentHTML)
	assert.Equal(t, "HR", v.PublishTo)
	assert.Equal(t, int64(5), *v.SpaceID)
	assert.True(t, v.RestrictReplies)
	assert.True(t, v.IsPlaceBlog)
	assert.Equal(t, "Admin", v.Author.Name)
	require.NotNil(t, v.Place)
	assert.Equal(t, "Tokyo", v.Place.Name)
	assert.Equal(t, []TagView{{ID: 1, Name: "News", Slug: "news"}}, v.Tags)
	assert.Equal(t, "f.pdf", v.Attachments[0].Name)
	assert.Equal(t, "application/pdf", v.Attachments[0].ContentType)
}
