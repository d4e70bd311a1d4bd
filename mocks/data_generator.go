package mocks

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// DataGenerator generates realistic daily price data for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how price data is generated.
type GeneratorConfig struct {
	// StartDate is the first observation date
	StartDate time.Time
	// Count is the number of rows to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// VolumeBase is the average daily volume
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          30,
		InitialPrice:   100.0,
		Volatility:     0.01,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates one row per calendar day following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.PriceRow {
	rows := make([]types.PriceRow, config.Count)
	price := config.InitialPrice

	for i := 0; i < config.Count; i++ {
		open := price

		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(1-u1)) * math.Cos(2*math.Pi*u2)

		close := open * (1 + config.Volatility*z)
		if close <= 0 {
			close = open * 0.99
		}

		high := math.Max(open, close) + math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		low := math.Min(open, close) - math.Abs(g.rng.Float64()*config.Volatility*open*0.5)

		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volume := math.Round(config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance))

		rows[i] = types.PriceRow{
			Date:   config.StartDate.AddDate(0, 0, i),
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: volume,
		}

		price = close
	}

	return rows
}

// CSV renders rows as an upload. header names the Date, Open, High, Low, Close and Volume
// columns in that order; it defaults to the canonical names.
func CSV(rows []types.PriceRow, header ...string) string {
	if len(header) == 0 {
		header = types.PriceColumns()
	}

	var b strings.Builder

	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")

	for _, row := range rows {
		b.WriteString(strings.Join([]string{
			row.Date.Format(types.DateLayout),
			formatFloat(row.Open),
			formatFloat(row.High),
			formatFloat(row.Low),
			formatFloat(row.Close),
			formatFloat(row.Volume),
		}, ","))
		b.WriteString("\n")
	}

	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
