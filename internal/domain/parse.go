package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ErrMissingBaseTemperature is returned when the document has no baseTemperature.
var ErrMissingBaseTemperature = errors.New("dataset has no baseTemperature")

// ParseDataset decodes and validates a dataset document. Invalid records are
// dropped and returned alongside the dataset rather than failing the parse.
func ParseDataset(payload []byte) (Dataset, []RejectedRecord, error) {
	var raw RawDataset
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Dataset{}, nil, fmt.Errorf("parse dataset: %w", err)
	}
	if raw.BaseTemperature == nil {
		return Dataset{}, nil, ErrMissingBaseTemperature
	}
	if math.IsNaN(*raw.BaseTemperature) || math.IsInf(*raw.BaseTemperature, 0) {
		return Dataset{}, nil, fmt.Errorf("parse dataset: non-finite baseTemperature")
	}

	records := make([]VarianceRecord, 0, len(raw.MonthlyVariance))
	var rejected []RejectedRecord
	for i, rr := range raw.MonthlyVariance {
		rec, reason := normalizeRecord(rr)
		if reason != "" {
			rejected = append(rejected, RejectedRecord{Index: i, Reason: reason})
			continue
		}
		records = append(records, rec)
	}

	return Dataset{
		BaseTemperature: *raw.BaseTemperature,
		MonthlyVariance: records,
		FetchedAt:       clock.Now().UTC(),
	}, rejected, nil
}

// normalizeRecord validates a raw record and converts its month to 0-based.
// A non-empty reason means the record was rejected.
func normalizeRecord(rr RawRecord) (VarianceRecord, string) {
	switch {
	case rr.Year == nil:
		return VarianceRecord{}, "missing year"
	case rr.Month == nil:
		return VarianceRecord{}, "missing month"
	case rr.Variance == nil:
		return VarianceRecord{}, "missing variance"
	case *rr.Month < 1 || *rr.Month > 12:
		return VarianceRecord{}, "month out of range: " + strconv.Itoa(*rr.Month)
	case math.IsNaN(*rr.Variance) || math.IsInf(*rr.Variance, 0):
		return VarianceRecord{}, "non-finite variance"
	}
	return VarianceRecord{
		Year:     *rr.Year,
		Month:    NormalizeMonth(*rr.Month),
		Variance: *rr.Variance,
	}, ""
}

// NormalizeMonth converts a 1-based wire month to the 0-based internal index.
func NormalizeMonth(month int) int {
	return month - 1
}

// MonthName returns the English name of a 0-based month, or "" when out of range.
func MonthName(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return time.Month(month + 1).String()
}

// YearLabel formats a year as at least four digits.
func YearLabel(year int) string {
	return fmt.Sprintf("%04d", year)
}
