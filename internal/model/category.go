package model

type Category struct {
	BaseModel
	ParentID    *string `db:"parent_id" json:"parent_id"` // Nullable, nil for roots
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	Enabled     bool    `db:"enabled" json:"enabled"`
}

type AttributeType string

const (
	AttributeTypeString  AttributeType = "STRING"
	AttributeTypeNumber  AttributeType = "NUMBER"
	AttributeTypeBoolean AttributeType = "BOOLEAN"
	AttributeTypeEnum    AttributeType = "ENUM"
)

func (t AttributeType) Valid() bool {
	switch t {
	case AttributeTypeString, AttributeTypeNumber, AttributeTypeBoolean, AttributeTypeEnum:
		return true
	}
	return false
}

// AttributeDefinition is a characteristic scoped to a category, e.g. "DPI" for mice.
type AttributeDefinition struct {
	BaseModel
	CategoryID string        `db:"category_id" json:"category_id"`
	Name       string        `db:"name" json:"name"`
	Type       AttributeType `db:"type" json:"type"`
}

type AttributeValue struct {
	BaseModel
	GoodsID     string  `db:"goods_id" json:"goods_id"`
	AttributeID string  `db:"attribute_id" json:"attribute_id"`
	Value       *string `db:"value" json:"value"`
}
