// Package domain models the monthly global land-surface temperature dataset.
//
// # Data Source
//
// The dataset is published by freeCodeCamp as a single JSON document at
// https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json.
// It is fetched once at startup; nothing in this package performs I/O.
//
// Wire format:
//
//	{
//	  "baseTemperature": 8.66,
//	  "monthlyVariance": [
//	    {"year": 1753, "month": 1, "variance": -1.366},
//	    ...
//	  ]
//	}
//
// Months are 1-based on the wire (1 = January) and 0-based in [VarianceRecord]
// (0 = January). The conversion happens in [ParseDataset] and nowhere else, so
// a record can never be re-indexed twice.
//
// Absolute temperature is baseTemperature + variance, in degrees Celsius.
//
// # Validation
//
// Records missing year, month or variance, with a month outside 1–12, or with a
// non-finite variance are rejected and reported as [RejectedRecord] values.
// A document without baseTemperature is rejected outright.
//
// # Color Mapping
//
// Cell colors come from five fixed stops forming four bands. The temperature is
// scaled by [MaxTemperature] into a factor and the factor selects the band:
//
//	factor < 0.25  stop1 → stop2
//	factor < 0.50  stop2 → stop3
//	factor < 0.75  stop3 → stop4
//	otherwise      stop4 → stop5
//
// A factor sitting exactly on a threshold belongs to the upper band. Each channel
// is c1 + factor×(c2−c1), rounded half up and clamped to 0–255. See
// [InterpolateColor].
package domain
