package pagination

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// fakeFetcher serves pre-built pages and records the requested page numbers.
type fakeFetcher struct {
	pages     [][]string
	pageCount int
	failOn    int
	requested []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page int) (Page[string], error) {
	f.requested = append(f.requested, page)
	if page == f.failOn {
		return Page[string]{}, errors.New("boom")
	}
	var items []string
	if page-1 < len(f.pages) {
		items = f.pages[page-1]
	}
	return Page[string]{Number: page, Count: f.pageCount, Items: items}, nil
}

func TestCursor(t *testing.T) {
	c := NewCursor()
	if c.Page != 1 || c.Total != 1 {
		t.Fatalf("NewCursor() = %+v, want page 1 of 1", c)
	}
	if c.Done() {
		t.Fatal("fresh cursor should not be done")
	}

	c.Advance(3)
	if c.Page != 2 || c.Total != 3 || c.Done() {
		t.Errorf("after Advance(3): %+v, done=%v", c, c.Done())
	}

	c.Advance(3)
	c.Advance(3)
	if !c.Done() {
		t.Errorf("cursor %+v should be done", c)
	}
}

func TestCollect_Pages(t *testing.T) {
	tests := []struct {
		name          string
		pages         [][]string
		pageCount     int
		expectedItems []string
		expectedCalls []int
	}{
		{
			name:          "single page",
			pages:         [][]string{{"a", "b"}},
			pageCount:     1,
			expectedItems: []string{"a", "b"},
			expectedCalls: []int{1},
		},
		{
			name:          "three pages concatenated in order",
			pages:         [][]string{{"a", "b"}, {"c"}, {"d", "e", "f"}},
			pageCount:     3,
			expectedItems: []string{"a", "b", "c", "d", "e", "f"},
			expectedCalls: []int{1, 2, 3},
		},
		{
			name:          "empty page in the middle",
			pages:         [][]string{{"a"}, {}, {"b"}},
			pageCount:     3,
			expectedItems: []string{"a", "b"},
			expectedCalls: []int{1, 2, 3},
		},
		{
			name:          "zero page count still fetches page one",
			pages:         [][]string{{"a"}},
			pageCount:     0,
			expectedItems: []string{"a"},
			expectedCalls: []int{1},
		},
		{
			name:          "zero page count and no data",
			pages:         nil,
			pageCount:     0,
			expectedItems: nil,
			expectedCalls: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{pages: tt.pages, pageCount: tt.pageCount}

			items, err := Collect[string](context.Background(), f)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}

			if !reflect.DeepEqual(items, tt.expectedItems) {
				t.Errorf("items = %v, want %v", items, tt.expectedItems)
			}
			if !reflect.DeepEqual(f.requested, tt.expectedCalls) {
				t.Errorf("requested pages = %v, want %v", f.requested, tt.expectedCalls)
			}
		})
	}
}

func TestCollect_PageCountGrowsAfterFirstResponse(t *testing.T) {
	var requested []int
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) (Page[int], error) {
		requested = append(requested, page)
		return Page[int]{Number: page, Count: 4, Items: []int{page}}, nil
	})

	items, err := Collect[int](context.Background(), fetcher)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if want := []int{1, 2, 3, 4}; !reflect.DeepEqual(items, want) {
		t.Errorf("items = %v, want %v", items, want)
	}
	if len(requested) != 4 {
		t.Errorf("fetch calls = %d, want 4", len(requested))
	}
}

func TestCollect_ErrorAbortsWithoutPartialResult(t *testing.T) {
	f := &fakeFetcher{
		pages:     [][]string{{"a"}, {"b"}, {"c"}},
		pageCount: 3,
		failOn:    2,
	}

	items, err := Collect[string](context.Background(), f)
	if err == nil {
		t.Fatal("expected error")
	}
	if items != nil {
		t.Errorf("items = %v, want nil", items)
	}
	if !reflect.DeepEqual(f.requested, []int{1, 2}) {
		t.Errorf("requested pages = %v, want [1 2] (no retry, no further pages)", f.requested)
	}
	if got := err.Error(); got != "fetch page 2: boom" {
		t.Errorf("error = %q", got)
	}
}

func TestCollect_ManyPages(t *testing.T) {
	const pageCount = 25
	var calls int
	fetcher := PageFetcherFunc[string](func(ctx context.Context, page int) (Page[string], error) {
		calls++
		items := make([]string, page%3)
		for i := range items {
			items[i] = fmt.Sprintf("p%d-%d", page, i)
		}
		return Page[string]{Number: page, Count: pageCount, Items: items}, nil
	})

	items, err := Collect[string](context.Background(), fetcher)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	want := 0
	for p := 1; p <= pageCount; p++ {
		want += p % 3
	}
	if len(items) != want {
		t.Errorf("len(items) = %d, want %d", len(items), want)
	}
	if calls != pageCount {
		t.Errorf("fetch calls = %d, want %d", calls, pageCount)
	}
	if items[0] != "p1-0" {
		t.Errorf("first item = %q, want p1-0", items[0])
	}
}
