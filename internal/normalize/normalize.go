// Package normalize converts raw form values into the shapes stored on a project.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Meridiem markers accepted by To24Hour.
const (
	AM = "AM"
	PM = "PM"
)

var (
	ErrInvalidClock    = errors.New("invalid clock value")
	ErrInvalidMeridiem = errors.New("invalid meridiem")
)

// lineBreaks matches \r\n before \r and \n so a Windows line ending joins once.
var lineBreaks = strings.NewReplacer("\r\n", ". ", "\r", ". ", "\n", ". ")

// To24Hour converts a 12-hour "hh:mm" clock value and an AM/PM marker into
// 24-hour "HH:MM".
//
// The hour 12 becomes 00 before PM adds twelve, so "12:30 PM" is "12:30" and
// "12:30 AM" is "00:30". Minutes pass through unchanged. An empty meridiem
// leaves the hour as given, for values already on a 24-hour clock.
func To24Hour(clock, meridiem string) (string, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok || mm == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	if !digits(hh, 1, 2) || !digits(mm, 2, 2) {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	hours, _ := strconv.Atoi(hh)
	minutes, _ := strconv.Atoi(mm)
	if hours > 23 || minutes > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	switch strings.ToUpper(strings.TrimSpace(meridiem)) {
	case "":
		return fmt.Sprintf("%02d:%s", hours, mm), nil
	case AM:
		if hours > 12 {
			return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
		}
		if hours == 12 {
			hours = 0
		}
	case PM:
		if hours > 12 {
			return "", fmt.Errorf("%w: %q", ErrInvalidClock, clock)
		}
		if hours == 12 {
			hours = 0
		}
		hours += 12
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMeridiem, meridiem)
	}

	return fmt.Sprintf("%02d:%s", hours, mm), nil
}

// digits reports whether s is between min and max ASCII digits long.
func digits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// SplitClock separates "05:15 PM" into its clock and meridiem parts.
// A value without a marker is returned with an empty meridiem.
func SplitClock(value string) (clock, meridiem string) {
	fields := strings.Fields(value)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], fields[1]
	}
}

// Multiline replaces every line break with ". " so free text is stored on a
// single sentence-joined line.
func Multiline(text string) string {
	return lineBreaks.Replace(text)
}
