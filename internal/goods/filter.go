package goods

import (
	"context"
	"sort"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/predicate"
)

// BuildPredicate composes the full goods filter. With IncludeSubcategories
// set, CategoryID is widened to its closure (an unknown id is NotFound) and
// CategoryIDs to the union of theirs (unknown ids are kept and match nothing).
// resolver may be nil when IncludeSubcategories is false.
func BuildPredicate(ctx context.Context, c *dto.SearchCriteria, resolver category.ClosureResolver) (predicate.Predicate, error) {
	p := c.Predicate()

	if !c.IncludeSubcategories {
		return p.And(
			predicate.Eq("category_id", c.CategoryID),
			predicate.In("category_id", c.CategoryIDs),
		), nil
	}

	if c.CategoryID != nil {
		ids, err := resolver.ResolveDescendantIDs(ctx, *c.CategoryID)
		if err != nil {
			return p, err
		}
		p = p.And(predicate.In("category_id", ids))
	}

	if c.CategoryIDs != nil {
		set := make(map[string]struct{}, len(c.CategoryIDs))
		for _, id := range c.CategoryIDs {
			ids, err := resolver.ResolveDescendantIDs(ctx, id)
			if apperr.IsKind(err, apperr.KindNotFound) {
				set[id] = struct{}{}
				continue
			}
			if err != nil {
				return p, err
			}
			for _, d := range ids {
				set[d] = struct{}{}
			}
		}
		union := make([]string, 0, len(set))
		for id := range set {
			union = append(union, id)
		}
		sort.Strings(union)
		p = p.And(predicate.In("category_id", union))
	}

	return p, nil
}
