package dto

import (
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/hierarchy"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

type ListChildrenRequest struct {
	ParentID string `json:"parent_id" validate:"required"`
}

type CategoryResponse struct {
	Category *hierarchy.Projection `json:"category"`
}

type CategoryListResponse struct {
	Categories []*hierarchy.Projection `json:"categories"`
}

type FlatCategoryResponse struct {
	Category *model.Category `json:"category"`
}

type FlatListResponse struct {
	Categories []model.Category `json:"categories"`
}

type DescendantIDsResponse struct {
	IDs []string `json:"ids"`
}
