// Command validate checks a monthly variance dataset for integrity before it
// is rendered: record shape, year span, month coverage and whether every
// temperature lands inside the color scale.
//
// Usage:
//
//	go run ./cmd/validate -in data/global-temperature.json
//	go run ./cmd/validate -url https://example.com/global-temperature.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	in := flag.String("in", "", "local dataset JSON file")
	url := flag.String("url", "", "dataset URL (default: the public dataset)")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout")
	flag.Parse()

	if *in != "" && *url != "" {
		flag.Usage()
		os.Exit(1)
	}
	if *in == "" && *url == "" {
		*url = config.DefaultDatasetURL
	}

	payload, err := load(*in, *url, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(payload, os.Stdout))
}

func load(in, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if in != "" {
		return source.NewFileSource(in).FetchDataset(ctx)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return source.NewClient(url, timeout, observability.NewUnregisteredMetrics(), logger).FetchDataset(ctx)
}

func run(payload []byte, out io.Writer) int {
	fmt.Fprintln(out, "=== Temperature Dataset Validation ===")
	fmt.Fprintln(out)

	ds, rejected, err := domain.ParseDataset(payload)
	if err != nil {
		fmt.Fprintf(out, "FATAL: parse dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRecords(rejected),
		validateYearSpan(ds),
		validateMonthCoverage(ds),
		validateColorRange(ds),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	minYear, maxYear := ds.YearRange()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d valid, %d rejected; years %d-%d; base temperature %g\n",
		len(ds.MonthlyVariance), len(rejected), minYear, maxYear, ds.BaseTemperature)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: record shape ──

func validateRecords(rejected []domain.RejectedRecord) *phase {
	p := &phase{name: "Phase 1: Record Shape"}
	for _, r := range rejected {
		p.errorf("record %d: %s", r.Index, r.Reason)
	}
	return p
}

// ── Phase 2: year span ──

// validateYearSpan requires at least one record and no gaps between the
// first and last year.
func validateYearSpan(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Year Span"}
	years := ds.Years()
	if len(years) == 0 {
		p.errorf("dataset has no valid records")
		return p
	}

	seen := make(map[int]bool, len(years))
	for _, y := range years {
		seen[y] = true
	}
	minYear, maxYear := ds.YearRange()
	for y := minYear; y <= maxYear; y++ {
		if !seen[y] {
			p.errorf("year %d missing from span %d-%d", y, minYear, maxYear)
		}
	}
	return p
}

// ── Phase 3: month coverage ──

// validateMonthCoverage flags years with missing or repeated months. The
// final year may be partial.
func validateMonthCoverage(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Month Coverage"}
	counts := make(map[int]map[int]int)
	for _, r := range ds.MonthlyVariance {
		if counts[r.Year] == nil {
			counts[r.Year] = make(map[int]int)
		}
		counts[r.Year][r.Month]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	_, maxYear := ds.YearRange()
	for _, y := range years {
		months := counts[y]
		for m := 0; m < 12; m++ {
			switch n := months[m]; {
			case n > 1:
				p.errorf("%d %s: %d records", y, domain.MonthName(m), n)
			case n == 0 && y != maxYear:
				p.errorf("%d %s: missing", y, domain.MonthName(m))
			}
		}
	}
	return p
}

// ── Phase 4: color range ──

// validateColorRange flags temperatures whose color factor falls outside
// [0, 1]. Those cells still render but with clamped channels.
func validateColorRange(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 4: Color Range"}
	for _, r := range ds.MonthlyVariance {
		temp := ds.Temperature(r)
		if f := domain.Factor(temp); !domain.FactorInRange(f) {
			p.errorf("%d %s: temperature %.3f has color factor %.3f",
				r.Year, domain.MonthName(r.Month), temp, f)
		}
	}
	return p
}
