package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/kenkkoko/SmartDCA-BOT/internal/storage"
)

const defaultExportMaxPoints = 365

// Export renders historical runs as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	if opts.MaxPoints <= 0 {
		opts.MaxPoints = defaultExportMaxPoints
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}

	// One run per day by default, so the window spans one day per point.
	from := to.AddDate(0, 0, -opts.MaxPoints)
	if opts.From != nil {
		from = opts.From.UTC()
	}

	if !from.Before(to) {
		return errors.New("from must be before to")
	}

	runs, err := store.ListRunsBetween(ctx, from, to)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		a.Logger.Info().Msg("no runs found for export window")
		return nil
	}

	downsampled := downsampleRuns(runs, opts.MaxPoints)
	a.Logger.Info().Int("total", len(runs)).Int("exported", len(downsampled)).Msg("exporting runs")

	if opts.CSVPath != "" {
		if err := writeRunsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.writeRunsPNG(opts.PNGPath, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func downsampleRuns(runs []storage.RunRecord, max int) []storage.RunRecord {
	if max <= 0 || len(runs) <= max {
		return runs
	}

	result := make([]storage.RunRecord, 0, max)
	step := float64(len(runs)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(runs) {
			idx = len(runs) - 1
		}
		result = append(result, runs[idx])
	}
	return result
}

func writeRunsCSV(path string, runs []storage.RunRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"run_ts", "crypto_index", "us_index", "tw_rsi", "triggered", "trigger_count", "delivered"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, run := range runs {
		record := []string{
			run.RunTS.Format(time.RFC3339),
			indicatorCSV(run.CryptoIndex),
			indicatorCSV(run.USIndex),
			indicatorCSV(run.TWRSI),
			strconv.FormatBool(run.Triggered),
			strconv.Itoa(run.TriggerCount),
			strconv.FormatBool(run.Delivered),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func indicatorCSV(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// indicatorSeries collects the non-NULL points of one indicator column.
func indicatorSeries(name string, runs []storage.RunRecord, pick func(storage.RunRecord) *int) (chart.TimeSeries, bool) {
	series := chart.TimeSeries{Name: name}
	for _, run := range runs {
		v := pick(run)
		if v == nil {
			continue
		}
		series.XValues = append(series.XValues, run.RunTS)
		series.YValues = append(series.YValues, float64(*v))
	}
	return series, len(series.XValues) >= 2
}

func (a *App) writeRunsPNG(path string, runs []storage.RunRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var series []chart.Series
	candidates := []struct {
		name string
		pick func(storage.RunRecord) *int
	}{
		{"Crypto F&G", func(r storage.RunRecord) *int { return r.CryptoIndex }},
		{"US F&G", func(r storage.RunRecord) *int { return r.USIndex }},
		{"TW RSI", func(r storage.RunRecord) *int { return r.TWRSI }},
	}
	for _, c := range candidates {
		if s, ok := indicatorSeries(c.name, runs, c.pick); ok {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		a.Logger.Warn().Msg("not enough data points to render chart; skipping PNG")
		return nil
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Index (0-100)",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
