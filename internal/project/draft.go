package project

import (
	"fmt"
	"sort"
	"strings"
)

// Draft field names, used as ErrorSet keys.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldStartDate   = "startDate"
	FieldStartTime   = "startTime"
	FieldEndDate     = "endDate"
	FieldEndTime     = "endTime"
)

// Validation messages shown next to each field.
const (
	MsgName        = "Please provide a valid project name."
	MsgDescription = "Please provide a valid project description."
	MsgStartDate   = "Please provide a start date."
	MsgStartTime   = "Please provide a start time."
	MsgEndDate     = "Please provide an end date."
	MsgEndBefore   = "End date is before start date."
	MsgEndTime     = "Please provide an end time."
)

// Draft is unvalidated input for a new project. Dates are "YYYY-MM-DD" and
// times are "hh:mm AM" or "hh:mm PM".
type Draft struct {
	Name        string
	Description string
	StartDate   string
	StartTime   string
	EndDate     string
	EndTime     string
}

// Set returns a copy of the draft with one field replaced.
func (d Draft) Set(field, value string) (Draft, error) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDescription:
		d.Description = value
	case FieldStartDate:
		d.StartDate = value
	case FieldStartTime:
		d.StartTime = value
	case FieldEndDate:
		d.EndDate = value
	case FieldEndTime:
		d.EndTime = value
	default:
		return d, fmt.Errorf("unknown draft field %q", field)
	}
	return d, nil
}

// ErrorSet maps a field name to its message. Fields without an error are
// absent, so a valid draft has an empty set.
type ErrorSet map[string]string

// Empty reports whether no field failed.
func (e ErrorSet) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e ErrorSet) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Without returns a copy with field removed, for clearing an error once the
// user edits that field.
func (e ErrorSet) Without(field string) ErrorSet {
	out := make(ErrorSet, len(e))
	for k, v := range e {
		if k != field {
			out[k] = v
		}
	}
	return out
}

// ValidationError carries the field errors of a rejected draft.
type ValidationError struct {
	Errors ErrorSet
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		parts = append(parts, f+": "+e.Errors[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every field of d and returns all failures.
//
// The end date must fall on a later calendar day than the start date;
// time-of-day is not compared. Unparseable dates skip that comparison.
func Validate(d Draft) ErrorSet {
	errs := ErrorSet{}

	if strings.TrimSpace(d.Name) == "" {
		errs[FieldName] = MsgName
	}
	if strings.TrimSpace(d.Description) == "" {
		errs[FieldDescription] = MsgDescription
	}
	if d.StartDate == "" {
		errs[FieldStartDate] = MsgStartDate
	}
	if d.StartTime == "" {
		errs[FieldStartTime] = MsgStartTime
	}

	if d.EndDate == "" {
		errs[FieldEndDate] = MsgEndDate
	} else if d.StartDate != "" {
		start, startErr := ParseDay(d.StartDate)
		end, endErr := ParseDay(d.EndDate)
		if startErr == nil && endErr == nil && !end.After(start) {
			errs[FieldEndDate] = MsgEndBefore
		}
	}

	if d.EndTime == "" {
		errs[FieldEndTime] = MsgEndTime
	}

	return errs
}
