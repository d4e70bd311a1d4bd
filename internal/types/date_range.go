package types

import (
	"encoding/json"
	"time"
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a range from two instants, discarding their time of day.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{
		Start: DateOf(start),
		End:   DateOf(end),
	}
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !DateOf(r.Start).After(DateOf(r.End))
}

// Contains reports whether the calendar date of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	date := DateOf(t)

	return !date.Before(DateOf(r.Start)) && !date.After(DateOf(r.End))
}

// String renders the range as "start..end".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// DateOf returns midnight UTC of the calendar date of t in t's own location.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type dateRangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MarshalJSON renders both bounds as calendar dates.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateRangeJSON{
		Start: r.Start.Format(DateLayout),
		End:   r.End.Format(DateLayout),
	})
}

// UnmarshalJSON parses the form produced by MarshalJSON.
func (r *DateRange) UnmarshalJSON(data []byte) error {
	var raw dateRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := time.Parse(DateLayout, raw.Start)
	if err != nil {
		return err
	}

	end, err := time.Parse(DateLayout, raw.End)
	if err != nil {
		return err
	}

	*r = DateRange{Start: start, End: end}

	return nil
}
