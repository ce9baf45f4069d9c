package taxonomy

import (
	"context"
	"fmt"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/models"
)

// CheckCategoryParent 分类最多一层父分类：父分类必须存在且自身没有父分类
//
// id is 0 for a category that does not exist yet.
func CheckCategoryParent(ctx context.Context, db database.DatabaseInterface, id int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return &apperrors.InvalidFieldError{Field: "parentCategoryId", Reason: "a category cannot be its own parent"}
	}
	parent, err := db.GetCategory(ctx, *parentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &apperrors.InvalidFieldError{
				Field:  "parentCategoryId",
				Reason: fmt.Sprintf("category %d does not exist", *parentID),
			}
		}
		return err
	}
	if parent.ParentCategoryID != nil {
		return &apperrors.InvalidFieldError{Field: "parentCategoryId", Reason: "categories nest only one level deep"}
	}
	if id > 0 {
		children, err := db.ListCategories(ctx, models.TaxonomyFilter{ParentCategoryID: &id})
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return &apperrors.InvalidFieldError{Field: "parentCategoryId", Reason: "a category with subcategories cannot get a parent"}
		}
	}
	return nil
}
