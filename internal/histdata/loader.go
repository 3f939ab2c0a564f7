// Package histdata loads and validates the historical economic observation
// set the simulation resamples from. Acquisition of the raw series (web
// APIs, cleaning, alignment) belongs to an upstream collaborator; this
// package only consumes the aligned CSV it produces.
package histdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/shopspring/decimal"

	"github.com/pensim/plan-comparator/internal/domain"
)

// csvColumns is the required header, in order: one period label followed by
// the six per-period rates.
var csvColumns = []string{
	"period",
	"us_equity_return",
	"intl_equity_return",
	"bond_return",
	"wage_growth_rate",
	"inflation_rate",
	"short_term_rate",
}

// Statistics provides a statistical summary of one rate series.
type Statistics struct {
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"std_dev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}

// Store holds the loaded observation set, read-only for the simulation's
// lifetime.
type Store struct {
	Observations []domain.EconomicObservation
	// SkippedRows counts source rows rejected for missing or non-numeric
	// fields. Partial periods are never retained.
	SkippedRows int
	Source      string
}

// LoadCSV reads the aligned observation file. Every retained observation
// has all six rate fields present and numeric; incomplete rows are counted
// and dropped.
func LoadCSV(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	store, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	store.Source = path
	return store, nil
}

// Read parses observation CSV from any reader.
func Read(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < len(csvColumns) {
		return nil, fmt.Errorf("invalid CSV format: expected %d columns, got %d", len(csvColumns), len(header))
	}
	for i, want := range csvColumns {
		if header[i] != want {
			return nil, fmt.Errorf("invalid CSV header: column %d is %q, want %q", i, header[i], want)
		}
	}

	store := &Store{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		obs, ok := parseObservation(record)
		if !ok {
			store.SkippedRows++
			continue
		}
		store.Observations = append(store.Observations, obs)
	}

	if len(store.Observations) == 0 {
		return nil, fmt.Errorf("no valid observations found")
	}
	return store, nil
}

func parseObservation(record []string) (domain.EconomicObservation, bool) {
	if len(record) < len(csvColumns) {
		return domain.EconomicObservation{}, false
	}
	rates := make([]decimal.Decimal, 6)
	for i := range rates {
		v, err := decimal.NewFromString(record[i+1])
		if err != nil {
			return domain.EconomicObservation{}, false
		}
		rates[i] = v
	}
	return domain.EconomicObservation{
		USEquityReturn:   rates[0],
		IntlEquityReturn: rates[1],
		BondReturn:       rates[2],
		WageGrowthRate:   rates[3],
		InflationRate:    rates[4],
		ShortTermRate:    rates[5],
	}, true
}

// SeriesStatistics computes summary statistics for one rate series selected
// by the extract function.
func (s *Store) SeriesStatistics(extract func(domain.EconomicObservation) decimal.Decimal) Statistics {
	if len(s.Observations) == 0 {
		return Statistics{}
	}

	values := make([]decimal.Decimal, len(s.Observations))
	for i, obs := range s.Observations {
		values[i] = extract(obs)
	}

	sum := decimal.Zero
	min := values[0]
	max := values[0]
	for _, v := range values {
		sum = sum.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values))))

	varianceSum := decimal.Zero
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(decimal.NewFromInt(int64(len(values))))
	varianceFloat, _ := variance.Float64()

	return Statistics{
		Mean:   mean,
		StdDev: decimal.NewFromFloat(math.Sqrt(varianceFloat)),
		Min:    min,
		Max:    max,
		Count:  len(values),
	}
}

// ValidateQuality performs sanity checks on the loaded data and returns a
// list of human-readable issues. Extreme per-period rates usually indicate
// an upstream alignment bug rather than genuine history.
func (s *Store) ValidateQuality() []string {
	var issues []string

	if s.SkippedRows > 0 {
		issues = append(issues, fmt.Sprintf("%d rows skipped for missing or non-numeric fields", s.SkippedRows))
	}

	negOne := decimal.NewFromInt(-1)
	two := decimal.NewFromInt(2)
	for i, obs := range s.Observations {
		for _, rate := range []decimal.Decimal{
			obs.USEquityReturn, obs.IntlEquityReturn, obs.BondReturn,
			obs.WageGrowthRate, obs.InflationRate, obs.ShortTermRate,
		} {
			if rate.LessThanOrEqual(negOne) || rate.GreaterThan(two) {
				issues = append(issues, fmt.Sprintf("observation %d has extreme rate %s", i, rate))
				break
			}
		}
	}

	return issues
}
