package shared

import (
	"context"

	"github.com/shop/storefront/internal/domain/shared"
)

// FetchPage counts the rows matching filter, clamps filter.Page into the
// available range and then loads that page. Out-of-range pages never error.
func FetchPage[T any](
	ctx context.Context,
	filter shared.Filter,
	count func(context.Context, shared.Filter) (int64, error),
	find func(context.Context, shared.Filter) ([]T, error),
) (shared.Paginated[T], error) {
	total, err := count(ctx, filter)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	filter.Page = shared.ClampPage(filter.Page, filter.PageSize, total)

	items, err := find(ctx, filter)
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// MapPage converts the items of a page, keeping its paging metadata
func MapPage[T, R any](page shared.Paginated[T], convert func(*T) R) shared.Paginated[R] {
	out := make([]R, len(page.Items))
	for i := range page.Items {
		out[i] = convert(&page.Items[i])
	}
	return shared.Paginated[R]{
		Items:      out,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
