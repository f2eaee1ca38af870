package cache

// Region is a named partition of the read cache, flushed as a unit whenever the
// matching entity family is mutated.
type Region string

const (
	RegionCategories         Region = "categories"
	RegionCategoryClosure    Region = "category-ids-closure"
	RegionGoods              Region = "goods"
	RegionGoodsSearch        Region = "goods-search"
	RegionAttributeValues    Region = "attribute-values"
	RegionCategoryAttributes Region = "category-attributes"
	RegionGoodsImages        Region = "goods-images"
)

var AllRegions = []Region{
	RegionCategories,
	RegionCategoryClosure,
	RegionGoods,
	RegionGoodsSearch,
	RegionAttributeValues,
	RegionCategoryAttributes,
	RegionGoodsImages,
}
