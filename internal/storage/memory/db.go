package memory

import "github.com/ValentynKoval/easybuy-catalog-service/internal/model"

// DB groups the catalog tables so repositories can apply ownership cascades
// across them, the way foreign keys do in Postgres.
type DB struct {
	Categories      *Table[model.Category]
	Attributes      *Table[model.AttributeDefinition]
	AttributeValues *Table[model.AttributeValue]
	Goods           *Table[model.Goods]
	GoodsImages     *Table[model.GoodsImage]
}

func NewDB() *DB {
	return &DB{
		Categories:      NewTable[model.Category](),
		Attributes:      NewTable[model.AttributeDefinition](),
		AttributeValues: NewTable[model.AttributeValue](),
		Goods:           NewTable[model.Goods](),
		GoodsImages:     NewTable[model.GoodsImage](),
	}
}
