package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// PriceRow is one complete observation of a price table.
type PriceRow struct {
	// Date is the observation date. Only the calendar date is meaningful.
	Date time.Time
	// Open is the opening price
	Open float64
	// High is the highest price
	High float64
	// Low is the lowest price
	Low float64
	// Close is the closing price
	Close float64
	// Volume is the traded volume
	Volume float64
}

// RawPriceRow is a decoded row whose cells may be missing.
type RawPriceRow struct {
	Date   optional.Option[time.Time]
	Open   optional.Option[float64]
	High   optional.Option[float64]
	Low    optional.Option[float64]
	Close  optional.Option[float64]
	Volume optional.Option[float64]
	// Incomplete is set when any cell of the source record is missing, in any column
	Incomplete bool
}

// Complete returns the row as a PriceRow when no cell is missing.
func (r RawPriceRow) Complete() (PriceRow, bool) {
	if r.Incomplete || r.Date.IsNone() || r.Open.IsNone() || r.High.IsNone() ||
		r.Low.IsNone() || r.Close.IsNone() || r.Volume.IsNone() {
		return PriceRow{}, false
	}

	return PriceRow{
		Date:   r.Date.Unwrap(),
		Open:   r.Open.Unwrap(),
		High:   r.High.Unwrap(),
		Low:    r.Low.Unwrap(),
		Close:  r.Close.Unwrap(),
		Volume: r.Volume.Unwrap(),
	}, true
}
