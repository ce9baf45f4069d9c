package content

import (
	"strings"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/models"
)

// ValidateCreate checks a new submission. Outside HR any category is cleared.
func ValidateCreate(r *Record) error {
	for _, f := range []struct {
		name string
		val  Opt[string]
	}{
		{"title", r.Title},
		{"content", r.Body},
		{"publishTo", r.PublishTarget},
	} {
		if !f.val.Set || strings.TrimSpace(f.val.Val) == "" {
			return &apperrors.MissingRequiredFieldError{Field: f.name}
		}
	}

	if r.PublishTarget.Val == models.PublishTargetHR {
		if r.CategoryID.Val == nil {
			return apperrors.ErrMissingCategoryForHR
		}
		return nil
	}
	r.CategoryID = Opt[*int64]{}
	return nil
}

// ValidatePatch checks only the fields present in r, with current as the stored state.
// The HR rule is evaluated on the merged result.
func ValidatePatch(r *Record, current *models.ContentItem) error {
	for _, f := range []struct {
		name string
		val  Opt[string]
	}{
		{"title", r.Title},
		{"content", r.Body},
		{"publishTo", r.PublishTarget},
	} {
		if f.val.Set && strings.TrimSpace(f.val.Val) == "" {
			return &apperrors.MissingRequiredFieldError{Field: f.name}
		}
	}

	target := current.PublishTarget
	if r.PublishTarget.Set {
		target = r.PublishTarget.Val
	}
	category := current.CategoryID
	if r.CategoryID.Set {
		category = r.CategoryID.Val
	}

	if target == models.PublishTargetHR {
		if category == nil {
			return apperrors.ErrMissingCategoryForHR
		}
		return nil
	}
	if category != nil {
		r.CategoryID = some[*int64](nil)
	}
	return nil
}
