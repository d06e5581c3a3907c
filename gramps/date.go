package gramps

import (
	"strconv"
	"strings"

	"github.com/bartfeenstra/betty-sub005/date"
)

const qualityEstimated = "estimated"

// loadDate turns a date-bearing element into a date value. The three
// recognized shapes are checked in precedence order, first match wins.
// Malformed values and non-default calendar formats resolve to an unknown
// date (nil), never an error.
func loadDate(shape *dateShape) date.Datey {
	switch {
	case shape.DateVal != nil:
		return loadDateVal(shape.DateVal)
	case shape.DateSpan != nil:
		return loadDateSpan(shape.DateSpan, false)
	case shape.DateRange != nil:
		return loadDateSpan(shape.DateRange, true)
	}
	return nil
}

// loadDateVal handles single-value dates. "about" marks the result fuzzy;
// "before" and "after" produce half-open ranges whose one endpoint is an
// uncertainty boundary.
func loadDateVal(el *dateValElement) date.Datey {
	if el.CFormat != "" {
		// Non-Gregorian calendars are not approximated
		return nil
	}
	d := parseDateValue(el.Value)
	if d == nil {
		return nil
	}
	d.Fuzzy = el.Quality == qualityEstimated
	switch el.Type {
	case "about":
		d.Fuzzy = true
		return d
	case "before":
		return &date.Range{End: d, EndIsBoundary: true}
	case "after":
		return &date.Range{Start: d, StartIsBoundary: true}
	}
	return d
}

// loadDateSpan handles datespan and daterange elements, which differ only
// in whether their endpoints are uncertainty boundaries.
func loadDateSpan(el *dateSpanElement, boundaries bool) date.Datey {
	if el.CFormat != "" {
		return nil
	}
	start := parseDateValue(el.Start)
	stop := parseDateValue(el.Stop)
	if start == nil || stop == nil {
		return nil
	}
	if el.Quality == qualityEstimated {
		start.Fuzzy = true
		stop.Fuzzy = true
	}
	return &date.Range{
		Start:           start,
		End:             stop,
		StartIsBoundary: boundaries,
		EndIsBoundary:   boundaries,
	}
}

// parseDateValue parses the YEAR, YEAR-MONTH or YEAR-MONTH-DAY value
// grammar: the year is exactly 4 characters, month and day exactly 2. A
// value not matching this shape yields nil. A part that is not a positive
// integer is treated as absent, so "1970-00-01" is a day-of-year date with
// an unknown month.
func parseDateValue(value string) *date.Date {
	parts := strings.Split(value, "-")
	if len(parts) > 3 || len(parts[0]) != 4 {
		return nil
	}
	for _, part := range parts[1:] {
		if len(part) != 2 {
			return nil
		}
	}

	d := &date.Date{Year: parseDatePart(parts[0])}
	if len(parts) > 1 {
		d.Month = parseDatePart(parts[1])
	}
	if len(parts) > 2 {
		d.Day = parseDatePart(parts[2])
	}
	return d
}

// parseDatePart returns the part's value, or zero (absent) when the part
// is not a sequence of digits or its value is zero.
func parseDatePart(part string) int {
	n, err := strconv.ParseUint(part, 10, 31)
	if err != nil {
		return 0
	}
	return int(n)
}
