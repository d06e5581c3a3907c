// Package date models genealogical dates: single points in time with
// possibly absent parts, and ranges whose endpoints may be uncertainty
// boundaries rather than precise values. An unknown date is a nil Datey.
package date

// Datey is implemented by every date value that can be attached to an
// entity: a single *Date or a *Range. Fields holding a Datey are nil when
// the date is unknown or could not be parsed.
type Datey interface {
	datey()
}

// Date is a single point in time. A part value of zero means that part is
// unknown, so a year-only date has Month and Day set to zero and a Date
// with all parts zero carries no information at all.
type Date struct {
	Year  int
	Month int
	Day   int
	// Fuzzy marks the date as approximate/estimated rather than exact
	Fuzzy bool
}

func (*Date) datey() {}

// Complete reports whether all three parts are known.
func (d *Date) Complete() bool {
	return d.Year != 0 && d.Month != 0 && d.Day != 0
}

// IsEmpty reports whether no part of the date is known.
func (d *Date) IsEmpty() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Range is a period between two optional endpoints. A missing endpoint
// leaves the period unbounded on that side ("before 1970" has no Start).
type Range struct {
	Start *Date
	End   *Date
	// Boundary flags mark an endpoint as an uncertainty bound rather than
	// a precise value: true for daterange endpoints and for the computed
	// endpoint of "before"/"after" dates, false for datespan endpoints.
	StartIsBoundary bool
	EndIsBoundary   bool
}

func (*Range) datey() {}
