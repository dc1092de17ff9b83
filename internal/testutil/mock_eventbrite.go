// Package testutil provides testing utilities for the Eventbrite client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// MockAttendee is an attendee served by MockEventbrite.
type MockAttendee struct {
	ID        string
	FirstName string
	LastName  string
}

// MockEvent is an event served by the search endpoint of MockEventbrite.
type MockEvent struct {
	ID       string
	StartUTC string
}

// MockResponse defines a raw response for a path.
type MockResponse struct {
	StatusCode int
	Body       string
}

// MockEventbrite is a configurable mock Eventbrite API for testing.
type MockEventbrite struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount    int
	RequestedPages  map[string][]int
	LastQuery       map[string]string
	LastRequestPath string
}

// NewMockEventbrite creates a new mock Eventbrite server.
func NewMockEventbrite() *MockEventbrite {
	mock := &MockEventbrite{
		handlers:       make(map[string]func(w http.ResponseWriter, r *http.Request)),
		RequestedPages: make(map[string][]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestPath = r.URL.Path
		mock.LastQuery = make(map[string]string)
		for key := range r.URL.Query() {
			mock.LastQuery[key] = r.URL.Query().Get(key)
		}
		if page := r.URL.Query().Get("page"); page != "" {
			if n, err := strconv.Atoi(page); err == nil {
				mock.RequestedPages[r.URL.Path] = append(mock.RequestedPages[r.URL.Path], n)
			}
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_code": 404, "error": "NOT_FOUND"}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockEventbrite) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockEventbrite) Close() {
	m.server.Close()
}

// SetHandler sets a custom handler for a specific path.
func (m *MockEventbrite) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a raw response for a path.
func (m *MockEventbrite) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetEvents configures the search endpoint to return events in the given order.
func (m *MockEventbrite) SetEvents(events ...MockEvent) {
	type start struct {
		UTC string `json:"utc"`
	}
	type event struct {
		ID    string `json:"id"`
		Start start  `json:"start"`
	}
	body := struct {
		Events []event `json:"events"`
	}{Events: []event{}}
	for _, e := range events {
		body.Events = append(body.Events, event{ID: e.ID, Start: start{UTC: e.StartUTC}})
	}

	m.SetResponse(SearchPath, MockResponse{StatusCode: http.StatusOK, Body: mustJSON(body)})
}

// SetAttendeePages configures the attendees endpoint of eventID to serve one
// page per element of pages, each reporting pageCount as the total page count.
// Pages beyond len(pages) are served empty.
func (m *MockEventbrite) SetAttendeePages(eventID string, pageCount int, pages ...[]MockAttendee) {
	type profile struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	type attendee struct {
		ID      string  `json:"id"`
		Profile profile `json:"profile"`
	}
	type pagination struct {
		PageNumber int `json:"page_number"`
		PageCount  int `json:"page_count"`
	}

	m.SetHandler(AttendeesPath(eventID), func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "INVALID_PAGE"}`))
			return
		}

		body := struct {
			Pagination pagination `json:"pagination"`
			Attendees  []attendee `json:"attendees"`
		}{
			Pagination: pagination{PageNumber: page, PageCount: pageCount},
			Attendees:  []attendee{},
		}
		if page <= len(pages) {
			for _, a := range pages[page-1] {
				body.Attendees = append(body.Attendees, attendee{
					ID:      a.ID,
					Profile: profile{FirstName: a.FirstName, LastName: a.LastName},
				})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mustJSON(body)))
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockEventbrite) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetRequestedPages returns the page numbers requested for eventID, in order.
func (m *MockEventbrite) GetRequestedPages(eventID string) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.RequestedPages[AttendeesPath(eventID)]...)
}

// GetLastQuery returns the query parameters of the most recent request.
func (m *MockEventbrite) GetLastQuery() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// SearchPath is the event search endpoint path.
const SearchPath = "/v3/events/search/"

// AttendeesPath returns the attendees endpoint path for eventID.
func AttendeesPath(eventID string) string {
	return fmt.Sprintf("/v3/events/%s/attendees/", eventID)
}

// NewAttendees builds n attendees with ids prefix-1..prefix-n.
func NewAttendees(prefix string, n int) []MockAttendee {
	out := make([]MockAttendee, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, MockAttendee{
			ID:        fmt.Sprintf("%s-%d", prefix, i),
			FirstName: strings.ToUpper(prefix[:1]) + prefix[1:],
			LastName:  fmt.Sprintf("No%d", i),
		})
	}
	return out
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal mock body: %v", err))
	}
	return string(data)
}
