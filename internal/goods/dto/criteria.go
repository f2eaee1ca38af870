package dto

import (
	"time"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

// SearchCriteria lists every optional goods filter. A nil field does not
// constrain the result.
type SearchCriteria struct {
	ID             *string               `json:"id,omitempty"`
	Article        *string               `json:"article,omitempty"`
	Name           *string               `json:"name,omitempty"` // Substring match
	Price          *float64              `json:"price,omitempty" validate:"omitempty,gte=0"`
	PriceMin       *float64              `json:"price_min,omitempty" validate:"omitempty,gte=0"`
	PriceMax       *float64              `json:"price_max,omitempty" validate:"omitempty,gte=0"`
	Stock          *int                  `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Rating         *float64              `json:"rating,omitempty"`
	ShopID         *string               `json:"shop_id,omitempty"`
	CategoryID     *string               `json:"category_id,omitempty"`
	CategoryIDs    []string              `json:"category_ids"` // Empty matches nothing, nil is unset
	Status         *model.GoodsStatus    `json:"status,omitempty"`
	DiscountStatus *model.DiscountStatus `json:"discount_status,omitempty"`
	CreatedFrom    *time.Time            `json:"created_from,omitempty"`
	CreatedTo      *time.Time            `json:"created_to,omitempty"`
	UpdatedFrom    *time.Time            `json:"updated_from,omitempty"`
	UpdatedTo      *time.Time            `json:"updated_to,omitempty"`

	// IncludeSubcategories widens CategoryID and CategoryIDs to their
	// descendant closures.
	IncludeSubcategories bool `json:"include_subcategories,omitempty"`
}

// Validate rejects inverted ranges and unknown enum values.
func (c *SearchCriteria) Validate() error {
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		return apperr.InvalidArgument("price_min", "must not exceed price_max")
	}
	if c.CreatedFrom != nil && c.CreatedTo != nil && c.CreatedFrom.After(*c.CreatedTo) {
		return apperr.InvalidArgument("created_from", "must not be after created_to")
	}
	if c.UpdatedFrom != nil && c.UpdatedTo != nil && c.UpdatedFrom.After(*c.UpdatedTo) {
		return apperr.InvalidArgument("updated_from", "must not be after updated_to")
	}
	if c.Status != nil && !c.Status.Valid() {
		return apperr.InvalidArgument("status", "unknown goods status "+string(*c.Status))
	}
	if c.DiscountStatus != nil && !c.DiscountStatus.Valid() {
		return apperr.InvalidArgument("discount_status", "unknown discount status "+string(*c.DiscountStatus))
	}
	return nil
}

// Predicate composes every criterion except the category ones, whose
// expansion needs the category tree.
func (c *SearchCriteria) Predicate() predicate.Predicate {
	p := predicate.True().And(
		predicate.Eq("id", c.ID),
		predicate.Eq("article", c.Article),
		predicate.Contains("name", c.Name),
		predicate.Eq("price", c.Price),
		predicate.Eq("stock", c.Stock),
		predicate.Eq("rating", c.Rating),
		predicate.Eq("shop_id", c.ShopID),
		predicate.Eq("status", c.Status),
		predicate.Eq("discount_status", c.DiscountStatus),
	)
	p = p.And(predicate.Between("price", c.PriceMin, c.PriceMax)...)
	p = p.And(predicate.Between("created_at", c.CreatedFrom, c.CreatedTo)...)
	p = p.And(predicate.Between("updated_at", c.UpdatedFrom, c.UpdatedTo)...)
	return p
}
