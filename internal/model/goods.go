package model

type GoodsStatus string

const (
	GoodsStatusActive   GoodsStatus = "ACTIVE"
	GoodsStatusInactive GoodsStatus = "INACTIVE"
	GoodsStatusArchived GoodsStatus = "ARCHIVED"
)

func (s GoodsStatus) Valid() bool {
	switch s {
	case GoodsStatusActive, GoodsStatusInactive, GoodsStatusArchived:
		return true
	}
	return false
}

type DiscountStatus string

const (
	DiscountStatusNone    DiscountStatus = "NONE"
	DiscountStatusActive  DiscountStatus = "ACTIVE"
	DiscountStatusExpired DiscountStatus = "EXPIRED"
)

func (s DiscountStatus) Valid() bool {
	switch s {
	case DiscountStatusNone, DiscountStatusActive, DiscountStatusExpired:
		return true
	}
	return false
}

type Goods struct {
	BaseModel
	Article        string         `db:"article" json:"article"` // Unique
	Name           string         `db:"name" json:"name"`
	Description    *string        `db:"description" json:"description"`
	Price          float64        `db:"price" json:"price"`
	Stock          int            `db:"stock" json:"stock"`
	Rating         float64        `db:"rating" json:"rating"`
	ShopID         string         `db:"shop_id" json:"shop_id"`
	CategoryID     *string        `db:"category_id" json:"category_id"` // Nulled when the category is deleted
	Status         GoodsStatus    `db:"status" json:"status"`
	DiscountStatus DiscountStatus `db:"discount_status" json:"discount_status"`
	Discount       *float64       `db:"discount" json:"discount"`
}

type GoodsImage struct {
	BaseModel
	GoodsID string `db:"goods_id" json:"goods_id"`
	URL     string `db:"url" json:"url"`
	IsMain  bool   `db:"is_main" json:"is_main"`
}
