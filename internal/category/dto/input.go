package dto

type CreateCategoryInput struct {
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,min=1"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"` // Defaults to true
}

// UpdateCategoryInput replaces every mutable field. A nil ParentID moves the
// category to the root.
type UpdateCategoryInput struct {
	ID          string  `json:"id" validate:"required"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,min=1"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Enabled     bool    `json:"enabled"`
}
