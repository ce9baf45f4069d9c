package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

func idp(v int64) *int64 { return &v }

func TestValidateCreateRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"missing title", `{"content":"b","publishTo":"NEWS"}`, "title"},
		{"blank title", `{"subject":"  ","content":"b","publishTo":"NEWS"}`, "title"},
		{"missing body", `{"title":"t","publishTo":"NEWS"}`, "content"},
		{"empty body", `{"title":"t","content":"","publishTo":"NEWS"}`, "content"},
		{"missing target", `{"title":"t","content":"b"}`, "publishTo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Normalize(decode(t, tt.payload))
			require.NoError(t, err)
			err = ValidateCreate(r)
			var missing *apperrors.MissingRequiredFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
			assert.Equal(t, 400, apperrors.HTTPStatus(err))
		})
	}
}

func TestValidateCreateHRRule(t *testing.T) {
	r, err := Normalize(decode(t, `{"title":"t","content":"b","publishTo":"HR"}`))
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateCreate(r), apperrors.ErrMissingCategoryForHR)

	r, err = Normalize(decode(t, `{"title":"t","content":"b","publishTo":"HR","categoryId":""}`))
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateCreate(r), apperrors.ErrMissingCategoryForHR)

	r, err = Normalize(decode(t, `{"title":"t","content":"b","publishTo":"HR","categoryId":7}`))
	require.NoError(t, err)
	require.NoError(t, ValidateCreate(r))
	assert.Equal(t, int64(7), *r.CategoryID.Val)

	r, err = Normalize(decode(t, `{"title":"t","content":"b","publishTo":"Sales","categoryId":7}`))
	require.NoError(t, err)
	require.NoError(t, ValidateCreate(r))
	assert.Nil(t, r.CategoryID.Val)
}

func TestValidatePatch(t *testing.T) {
	news := &models.ContentItem{ID: 1, Title: "t", Body: "b", PublishTarget: "NEWS"}
	hr := &models.ContentItem{ID: 2, Title: "t", Body: "b", PublishTarget: "HR", CategoryID: idp(3)}

	tests := []struct {
		name     string
		current  *models.ContentItem
		payload  string
		wantErr  error
		category Opt[*int64]
	}{
		{"title only", news, `{"title":"new"}`, nil, Opt[*int64]{}},
		{"switch to HR without category", news, `{"publishTo":"HR"}`, apperrors.ErrMissingCategoryForHR, Opt[*int64]{}},
		{"switch to HR with category", news, `{"publishTo":"HR","categoryId":4}`, nil, some(idp(4))},
		{"stay HR, stored category", hr, `{"title":"x"}`, nil, Opt[*int64]{}},
		{"stay HR, clear category", hr, `{"categoryId":""}`, apperrors.ErrMissingCategoryForHR, Opt[*int64]{}},
		{"leave HR clears stored category", hr, `{"publishTo":"NEWS"}`, nil, some[*int64](nil)},
		{"category outside HR discarded", news, `{"categoryId":9}`, nil, some[*int64](nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Normalize(decode(t, tt.payload))
			require.NoError(t, err)
			err = ValidatePatch(r, tt.current)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.category, r.CategoryID)
		})
	}
}

func TestValidatePatchRejectsBlankPresentFields(t *testing.T) {
	current := &models.ContentItem{ID: 1, Title: "t", Body: "b", PublishTarget: "NEWS"}
	r, err := Normalize(decode(t, `{"content":""}`))
	require.NoError(t, err)

	var missing *apperrors.MissingRequiredFieldError
	require.ErrorAs(t, ValidatePatch(r, current), &missing)
	assert.Equal(t, "content", missing.Field)
}
