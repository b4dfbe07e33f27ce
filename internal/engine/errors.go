package engine

import "fmt"

// InvalidDateError reports a date whose month or day falls outside the
// bounds of the calendar schema it was constructed against.
type InvalidDateError struct {
	Year   int
	Month  int
	Day    int
	Reason string
}

// Error implements the error interface.
func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %d-%02d-%02d: %s", e.Year, e.Month, e.Day, e.Reason)
}

// InvalidTimeFormatError reports a malformed "HH:MM" time string. It is
// raised at the point of use: a bad sunrise string on a season only
// surfaces when the solar calculator parses it.
type InvalidTimeFormatError struct {
	Value string
}

// Error implements the error interface.
func (e *InvalidTimeFormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: expected HH:MM", e.Value)
}
