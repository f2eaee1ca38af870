package model

// Field accessors expose column values by their db name so composed predicates
// can be evaluated against in-memory rows the same way SQL evaluates them.

func (c Category) Field(name string) any {
	switch name {
	case "id":
		return c.ID
	case "parent_id":
		return c.ParentID
	case "name":
		return c.Name
	case "description":
		return c.Description
	case "enabled":
		return c.Enabled
	case "created_at":
		return c.CreatedAt
	case "updated_at":
		return c.UpdatedAt
	}
	return nil
}

func (a AttributeDefinition) Field(name string) any {
	switch name {
	case "id":
		return a.ID
	case "category_id":
		return a.CategoryID
	case "name":
		return a.Name
	case "type":
		return a.Type
	case "created_at":
		return a.CreatedAt
	case "updated_at":
		return a.UpdatedAt
	}
	return nil
}

func (v AttributeValue) Field(name string) any {
	switch name {
	case "id":
		return v.ID
	case "goods_id":
		return v.GoodsID
	case "attribute_id":
		return v.AttributeID
	case "value":
		return v.Value
	}
	return nil
}

func (g Goods) Field(name string) any {
	switch name {
	case "id":
		return g.ID
	case "article":
		return g.Article
	case "name":
		return g.Name
	case "description":
		return g.Description
	case "price":
		return g.Price
	case "stock":
		return g.Stock
	case "rating":
		return g.Rating
	case "shop_id":
		return g.ShopID
	case "category_id":
		return g.CategoryID
	case "status":
		return g.Status
	case "discount_status":
		return g.DiscountStatus
	case "discount":
		return g.Discount
	case "created_at":
		return g.CreatedAt
	case "updated_at":
		return g.UpdatedAt
	}
	return nil
}

func (i GoodsImage) Field(name string) any {
	switch name {
	case "id":
		return i.ID
	case "goods_id":
		return i.GoodsID
	case "url":
		return i.URL
	case "is_main":
		return i.IsMain
	}
	return nil
}
