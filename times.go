package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// showtimeLayout matches the 12-hour clock strings on the listing page.
	showtimeLayout = "3:04 PM"
	// dateTimeLayout composes a record's date label with one showtime,
	// e.g. "Friday, August 28 2026 7:30 PM".
	dateTimeLayout = "Monday, January 2 2006 3:04 PM"
)

// validateShowtime reports whether s is a 12-hour clock time with an AM/PM
// marker. Placeholder entries and 24-hour strings fail here and never reach
// the calendar.
func validateShowtime(s string) bool {
	_, err := time.Parse(showtimeLayout, s)
	return err == nil
}

// parseRuntime converts runtime text like "1h 45m" into a duration. Anything
// that does not strip down to exactly two integers is rejected.
func parseRuntime(s string) (time.Duration, error) {
	fields := strings.Fields(strings.NewReplacer("h", "", "m", "").Replace(s))
	if len(fields) != 2 {
		return 0, fmt.Errorf("malformed runtime %q", s)
	}
	hours, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("malformed runtime %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("malformed runtime %q: %w", s, err)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// showingTimes computes the UTC start and end instants for one showtime of a
// record. The end is the start plus the runtime on the wall clock, and both
// wall-clock times are then interpreted in the venue's timezone; a showing
// that runs across a DST transition keeps its advertised clock times rather
// than its elapsed length.
func showingTimes(date, showtime, runtime string, loc *time.Location) (time.Time, time.Time, error) {
	naiveStart, err := time.Parse(dateTimeLayout, date+" "+showtime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad showing datetime %q %q: %w", date, showtime, err)
	}
	duration, err := parseRuntime(runtime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	naiveEnd := naiveStart.Add(duration)
	return localize(naiveStart, loc), localize(naiveEnd, loc), nil
}

// localize reinterprets the wall-clock fields of naive in loc and returns
// the UTC instant.
func localize(naive time.Time, loc *time.Location) time.Time {
	return time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), 0, loc).UTC()
}
