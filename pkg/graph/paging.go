package graph

import "context"

// Page is one response envelope of a Graph collection.
type Page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// collectAllPages follows @odata.nextLink from initialURL until a page carries
// none, and returns the records of every page in order. When keep is non-nil,
// records are filtered page by page as they arrive.
func collectAllPages[T any](ctx context.Context, c *Client, initialURL string, keep func(T) bool) ([]T, error) {
	var all []T
	pages := 0

	for currentURL := initialURL; currentURL != ""; {
		var page Page[T]
		if err := c.getJSON(ctx, currentURL, &page); err != nil {
			return nil, err
		}
		pages++

		for _, item := range page.Value {
			if keep == nil || keep(item) {
				all = append(all, item)
			}
		}
		currentURL = page.NextLink
	}

	c.logger.Debug("collected pages", "url", initialURL, "pages", pages, "records", len(all))
	return all, nil
}
