// Package view derives the visible project list from a collection snapshot.
//
// Functions here never modify their input; sorting returns a new slice that the
// store installs as its canonical order.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/projectctl/internal/project"
)

// SortMode is one of the four user-facing orderings.
type SortMode int

const (
	NameAscending SortMode = iota + 1
	NameDescending
	DateAscending
	DateDescending
)

var sortModeNames = map[SortMode]string{
	NameAscending:  "name-asc",
	NameDescending: "name-desc",
	DateAscending:  "date-asc",
	DateDescending: "date-desc",
}

// String returns the flag form of the mode.
func (m SortMode) String() string {
	if s, ok := sortModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

// ParseSortMode accepts the flag names and the dropdown keys NameA, NameD,
// DateA and DateD.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name-asc", "namea":
		return NameAscending, nil
	case "name-desc", "named":
		return NameDescending, nil
	case "date-asc", "datea":
		return DateAscending, nil
	case "date-desc", "dated":
		return DateDescending, nil
	}
	return 0, fmt.Errorf("unknown sort mode %q (want name-asc, name-desc, date-asc or date-desc)", s)
}

// Filter keeps projects whose name contains search, ignoring case. An empty
// search returns projects unchanged.
func Filter(projects []project.Project, search string) []project.Project {
	if search == "" {
		return projects
	}
	needle := strings.ToLower(search)
	out := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders projects by mode. An unknown mode returns a copy in the
// original order.
func Sort(projects []project.Project, mode SortMode) []project.Project {
	switch mode {
	case NameAscending:
		return SortByName(projects, true)
	case NameDescending:
		return SortByName(projects, false)
	case DateAscending:
		return SortByDate(projects, true)
	case DateDescending:
		return SortByDate(projects, false)
	}
	return clone(projects)
}

// SortByName orders by name, ignoring case. Ties keep their prior order.
func SortByName(projects []project.Project, ascending bool) []project.Project {
	out := clone(projects)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToUpper(out[i].Name), strings.ToUpper(out[j].Name)
		if ascending {
			return a < b
		}
		return a > b
	})
	return out
}

// SortByDate orders by the calendar date of StartDate; time-of-day is
// ignored. Ties keep their prior order. Unparseable dates sort as the zero
// date.
func SortByDate(projects []project.Project, ascending bool) []project.Project {
	out := clone(projects)
	days := make(map[string]time.Time, len(out))
	for _, p := range out {
		if _, ok := days[p.StartDate]; !ok {
			day, _ := project.ParseDay(p.StartDate)
			days[p.StartDate] = day
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := days[out[i].StartDate], days[out[j].StartDate]
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
	return out
}

func clone(projects []project.Project) []project.Project {
	out := make([]project.Project, len(projects))
	copy(out, projects)
	return out
}
