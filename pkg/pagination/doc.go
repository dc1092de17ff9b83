// Package pagination walks page-numbered API endpoints sequentially.
//
// Eventbrite reports the total page count in every response body, so the
// walker cannot know how many pages exist before it has seen one. Pages are
// therefore fetched one after another, each step re-reading the authoritative
// page count.
//
// Example usage:
//
//	fetcher := pagination.PageFetcherFunc[Attendee](func(ctx context.Context, page int) (pagination.Page[Attendee], error) {
//		// fetch and decode one page
//	})
//	attendees, err := pagination.Collect[Attendee](ctx, fetcher)
//
// The collector:
//   - Starts with a cursor at page 1 of 1
//   - Checks the stop condition before every fetch, so page 1 is always fetched
//   - Overwrites the known page count with each response's value
//   - Appends items in page order
//   - Aborts on the first error and returns no partial data
package pagination
