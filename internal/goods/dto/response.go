package dto

import "github.com/ValentynKoval/easybuy-catalog-service/internal/model"

type GoodsResponse struct {
	Goods *model.Goods `json:"goods"`
}

type GoodsListResponse struct {
	Goods []model.Goods `json:"goods"`
}

type ImageResponse struct {
	Image *model.GoodsImage `json:"image"`
}

type ImageListResponse struct {
	Images []model.GoodsImage `json:"images"`
}
