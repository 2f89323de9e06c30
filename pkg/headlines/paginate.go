package headlines

import (
	"context"
	"fmt"

	"github.com/xhad/markovchina/internal/types"
)

// Paginate fetches successive pages at offsets 0, pageSize, 2*pageSize, ...
// below total and returns their titles in fetch order. It stops after the
// first page the provider reports as exhausted.
func Paginate(ctx context.Context, f types.Fetcher, query string, pageSize, total int) ([]string, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if total <= 0 {
		return nil, fmt.Errorf("total must be positive, got %d", total)
	}

	var titles []string
	for offset := 0; offset < total; offset += pageSize {
		page, err := f.Fetch(ctx, query, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch offset %d: %w", offset, err)
		}
		titles = append(titles, page.Titles...)
		if page.Exhausted {
			break
		}
	}
	return titles, nil
}
