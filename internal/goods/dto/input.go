package dto

import "github.com/ValentynKoval/easybuy-catalog-service/internal/model"

type CreateGoodsInput struct {
	Article        string               `json:"article" validate:"required,max=64"`
	Name           string               `json:"name" validate:"required,max=255"`
	Description    *string              `json:"description,omitempty"`
	Price          float64              `json:"price" validate:"gte=0"`
	Stock          int                  `json:"stock" validate:"gte=0"`
	Rating         float64              `json:"rating" validate:"gte=0,lte=5"`
	ShopID         string               `json:"shop_id"` // Falls back to the caller's shop
	CategoryID     *string              `json:"category_id,omitempty"`
	Status         model.GoodsStatus    `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE ARCHIVED"`
	DiscountStatus model.DiscountStatus `json:"discount_status" validate:"omitempty,oneof=NONE ACTIVE EXPIRED"`
	Discount       *float64             `json:"discount,omitempty" validate:"omitempty,gte=0"`
}

type UpdateGoodsInput struct {
	ID             string               `json:"id" validate:"required"`
	Article        string               `json:"article" validate:"required,max=64"`
	Name           string               `json:"name" validate:"required,max=255"`
	Description    *string              `json:"description,omitempty"`
	Price          float64              `json:"price" validate:"gte=0"`
	Stock          int                  `json:"stock" validate:"gte=0"`
	Rating         float64              `json:"rating" validate:"gte=0,lte=5"`
	CategoryID     *string              `json:"category_id,omitempty"`
	Status         model.GoodsStatus    `json:"status" validate:"required,oneof=ACTIVE INACTIVE ARCHIVED"`
	DiscountStatus model.DiscountStatus `json:"discount_status" validate:"required,oneof=NONE ACTIVE EXPIRED"`
	Discount       *float64             `json:"discount,omitempty" validate:"omitempty,gte=0"`
}

type CreateImageInput struct {
	GoodsID string `json:"goods_id" validate:"required"`
	URL     string `json:"url" validate:"required,url"`
	IsMain  bool   `json:"is_main"`
}

type ImageFilter struct {
	GoodsID *string `json:"goods_id,omitempty"`
}

type StockAdjustment struct {
	GoodsID string `json:"goods_id" validate:"required"`
	Delta   int    `json:"delta"`
}
