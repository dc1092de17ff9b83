package client

import (
	"encoding/json"
	"errors"
)

// validator is implemented by response bodies with required fields.
// GetJSON reports a failed check as a DecodeError.
type validator interface {
	validate() error
}

// EventSearchResponse is the body of the event search endpoint.
type EventSearchResponse struct {
	Events []Event `json:"events"`
}

func (r *EventSearchResponse) validate() error {
	if r.Events == nil {
		return errors.New(`missing field "events"`)
	}
	return nil
}

// Event is a single event returned by the search endpoint.
type Event struct {
	ID    string     `json:"id"`
	Start EventStart `json:"start"`
}

// EventStart holds the event start time as reported by Eventbrite.
type EventStart struct {
	UTC string `json:"utc"`
}

// AttendeePage is the body of one page of the attendees endpoint.
type AttendeePage struct {
	Pagination *Pagination `json:"pagination"`
	Attendees  []Attendee  `json:"attendees"`
}

func (p *AttendeePage) validate() error {
	if p.Pagination == nil {
		return errors.New(`missing field "pagination"`)
	}
	if p.Attendees == nil {
		return errors.New(`missing field "attendees"`)
	}
	return nil
}

// Pagination is the page descriptor of a paginated response.
type Pagination struct {
	PageNumber int `json:"page_number"`
	PageCount  int `json:"page_count"`
}

// UnmarshalJSON requires both page_number and page_count to be present.
func (p *Pagination) UnmarshalJSON(data []byte) error {
	var raw struct {
		PageNumber *int `json:"page_number"`
		PageCount  *int `json:"page_count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.PageNumber == nil {
		return errors.New(`pagination: missing field "page_number"`)
	}
	if raw.PageCount == nil {
		return errors.New(`pagination: missing field "page_count"`)
	}

	p.PageNumber = *raw.PageNumber
	p.PageCount = *raw.PageCount
	return nil
}

// Attendee is one attendee of an event.
type Attendee struct {
	ID      string  `json:"id"`
	Profile Profile `json:"profile"`
}

// Profile holds the attendee's name.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
