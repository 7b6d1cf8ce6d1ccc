// Command render fetches the temperature dataset once and writes the heatmap
// to a file. The output format follows the file extension: ".svg" writes a
// standalone SVG, anything else writes the interactive HTML page.
//
// Usage:
//
//	go run ./cmd/render -out heatmap.html
//	go run ./cmd/render -in data/global-temperature.json -out heatmap.svg
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	url := fs.String("url", config.DefaultDatasetURL, "dataset URL")
	in := fs.String("in", "", "local dataset JSON file (overrides -url)")
	out := fs.String("out", "", "output path (.svg or .html)")
	timeout := fs.Duration("timeout", 10*time.Second, "fetch timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	payload, err := fetch(*in, *url, *timeout, logger)
	if err != nil {
		return err
	}

	ds, rejected, err := domain.ParseDataset(payload)
	if err != nil {
		return err
	}
	if len(rejected) > 0 {
		logger.Warn("records rejected", "count", len(rejected))
	}

	c := chart.New(ds)

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(*out), ".svg") {
		err = c.RenderSVG(&buf, chart.SVGOptions{})
	} else {
		err = c.RenderPage(&buf, time.Now())
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil { //nolint:gosec // output is a public chart
		return fmt.Errorf("write %s: %w", *out, err)
	}
	logger.Info("chart written", "path", *out, "cells", len(ds.MonthlyVariance), "bytes", buf.Len())
	return nil
}

func fetch(in, url string, timeout time.Duration, logger *slog.Logger) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if in != "" {
		return source.NewFileSource(in).FetchDataset(ctx)
	}
	return source.NewClient(url, timeout, observability.NewUnregisteredMetrics(), logger).FetchDataset(ctx)
}
