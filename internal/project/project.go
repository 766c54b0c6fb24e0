package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/projectctl/internal/normalize"
)

// Common errors.
var (
	ErrEmptyProjectID   = errors.New("project ID cannot be empty")
	ErrEmptyProjectName = errors.New("project name cannot be empty")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTime      = errors.New("invalid time")
	ErrInvalidID        = errors.New("invalid project ID")
)

const (
	// DateLayout is the calendar date part of a stored date-time.
	DateLayout = "2006-01-02"

	// DateTimeLayout is the stored "YYYY-MM-DD HH:MM" form of start and end.
	DateTimeLayout = "2006-01-02 15:04"
)

// ID is the server-assigned project identifier. The remote store may encode
// it as a JSON string or number; both decode to the same text.
type ID string

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a string, a number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
	*id = ID(n.String())
	return nil
}

// Project is a tracked work item as exchanged with the remote store.
type Project struct {
	// ID is assigned by the remote store; the client never generates it.
	ID ID `json:"id"`

	// Name is the human-readable project name.
	Name string `json:"name"`

	// Description is free text with line breaks joined as ". ".
	Description string `json:"description"`

	// StartDate is "YYYY-MM-DD HH:MM".
	StartDate string `json:"startDate"`

	// EndDate is "YYYY-MM-DD HH:MM".
	EndDate string `json:"endDate"`
}

// StartDay returns the calendar date of StartDate, ignoring time-of-day.
func (p Project) StartDay() (time.Time, error) {
	return ParseDay(p.StartDate)
}

// EndDay returns the calendar date of EndDate, ignoring time-of-day.
func (p Project) EndDay() (time.Time, error) {
	return ParseDay(p.EndDate)
}

// ParseDay parses the date portion of either "YYYY-MM-DD" or
// "YYYY-MM-DD HH:MM".
func ParseDay(value string) (time.Time, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(value), " ")
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// FromDraft builds a Project from a draft that passes Validate.
//
// A draft with field errors yields a *ValidationError. A draft whose dates or
// clocks cannot be parsed yields ErrInvalidDate or ErrInvalidTime. On success
// the description is joined onto one line and both clocks are on 24 hours.
func FromDraft(d Draft) (Project, error) {
	if errs := Validate(d); !errs.Empty() {
		return Project{}, &ValidationError{Errors: errs}
	}

	start, err := joinDateTime(d.StartDate, d.StartTime)
	if err != nil {
		return Project{}, fmt.Errorf("start: %w", err)
	}
	end, err := joinDateTime(d.EndDate, d.EndTime)
	if err != nil {
		return Project{}, fmt.Errorf("end: %w", err)
	}

	return Project{
		Name:        d.Name,
		Description: normalize.Multiline(d.Description),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func joinDateTime(date, clockValue string) (string, error) {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(date)); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	clock, meridiem := normalize.SplitClock(clockValue)
	hhmm, err := normalize.To24Hour(clock, meridiem)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	return strings.TrimSpace(date) + " " + hhmm, nil
}
