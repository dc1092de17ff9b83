package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagination_pages_fetched_total",
		Help: "Total number of pages fetched by the collector",
	})

	itemsCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagination_items_collected_total",
		Help: "Total number of items appended across all pages",
	})
)

// Page is one decoded page of a paginated endpoint.
type Page[T any] struct {
	// Number is the page number reported by the response.
	Number int
	// Count is the total page count reported by the response.
	Count int
	// Items are the page-local items in response order.
	Items []T
}

// PageFetcher fetches a single page by number.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, page int) (Page[T], error)
}

// PageFetcherFunc adapts a function to the PageFetcher interface.
type PageFetcherFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// FetchPage calls f(ctx, page).
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, page int) (Page[T], error) {
	return f(ctx, page)
}

// Cursor tracks the next page to fetch and the latest known page count.
type Cursor struct {
	Page  int
	Total int
}

// NewCursor returns a cursor positioned at page 1 of 1.
func NewCursor() Cursor {
	return Cursor{Page: 1, Total: 1}
}

// Done reports whether the cursor has moved past the last known page.
func (c Cursor) Done() bool {
	return c.Page > c.Total
}

// Advance records the page count reported by the page just fetched and moves
// to the next page.
func (c *Cursor) Advance(total int) {
	c.Total = total
	c.Page++
}

// Collect fetches pages 1..N in order, where N is the page count reported by
// the most recent response, and returns the concatenation of their items.
// At least one page is always fetched. On error no items are returned.
func Collect[T any](ctx context.Context, fetcher PageFetcher[T]) ([]T, error) {
	start := time.Now()
	cursor := NewCursor()
	var items []T

	for !cursor.Done() {
		page, err := fetcher.FetchPage(ctx, cursor.Page)
		if err != nil {
			log.Warn().
				Err(err).
				Int("page", cursor.Page).
				Int("total_pages", cursor.Total).
				Msg("Page fetch failed")
			return nil, fmt.Errorf("fetch page %d: %w", cursor.Page, err)
		}
		pagesFetchedTotal.Inc()

		log.Debug().
			Int("page", cursor.Page).
			Int("page_number", page.Number).
			Int("page_count", page.Count).
			Int("items", len(page.Items)).
			Msg("Fetched page")

		items = append(items, page.Items...)
		itemsCollectedTotal.Add(float64(len(page.Items)))
		cursor.Advance(page.Count)
	}

	log.Info().
		Int("pages", cursor.Page-1).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}
