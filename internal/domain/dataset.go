package domain

import "time"

// RawRecord is one entry of monthlyVariance as it appears on the wire.
// Pointers distinguish a missing field from a zero value.
type RawRecord struct {
	Year     *int     `json:"year"`
	Month    *int     `json:"month"`
	Variance *float64 `json:"variance"`
}

// RawDataset is the JSON document served by the upstream source.
type RawDataset struct {
	BaseTemperature *float64    `json:"baseTemperature"`
	MonthlyVariance []RawRecord `json:"monthlyVariance"`
}

// VarianceRecord is a validated data point. Month is 0-based.
type VarianceRecord struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Variance float64 `json:"variance"`
}

// RejectedRecord describes a raw record dropped during parsing.
type RejectedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Dataset is the validated, normalized dataset. It is not mutated after ParseDataset.
type Dataset struct {
	BaseTemperature float64          `json:"baseTemperature"`
	MonthlyVariance []VarianceRecord `json:"monthlyVariance"`
	FetchedAt       time.Time        `json:"fetchedAt"`
}

// Temperature returns the absolute temperature of r.
func (d Dataset) Temperature(r VarianceRecord) float64 {
	return d.BaseTemperature + r.Variance
}

// YearRange returns the smallest and largest year present. Both are zero for an empty dataset.
func (d Dataset) YearRange() (minYear, maxYear int) {
	for i, r := range d.MonthlyVariance {
		if i == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if i == 0 || r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear
}

// Years returns the distinct years in first-seen order.
func (d Dataset) Years() []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range d.MonthlyVariance {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	return years
}

// Snapshot is a stored copy of a raw dataset document.
type Snapshot struct {
	Source    string
	Payload   []byte
	FetchedAt time.Time
}
