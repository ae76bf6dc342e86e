package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
	"tradeperf/types"
)

func writeMatchesCSVFile(path string, events []types.MatchEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create matches file: %w", err)
	}
	defer f.Close()

	return WriteMatchesCSV(f, events)
}

// WriteMatchesCSV writes one row per realized match event.
func WriteMatchesCSV(w io.Writer, events []types.MatchEvent) error {
	cw := csv.NewWriter(w)

	header := []string{
		"instrument",
		"time", // RFC3339
		"closed",
		"size",
		"entry_price",
		"exit_price",
		"profit",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, ev := range events {
		record := []string{
			ev.Instrument,
			ev.Time.Format(time.RFC3339),
			string(ev.Direction),
			ev.Size.String(),
			ev.EntryPrice.String(),
			ev.ExitPrice.String(),
			ev.Profit.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeValuationCSVFile(path string, points []types.ValuationPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create valuation file: %w", err)
	}
	defer f.Close()

	return WriteValuationCSV(f, points)
}

// WriteValuationCSV writes the portfolio value series, one checkpoint per row.
func WriteValuationCSV(w io.Writer, points []types.ValuationPoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "realized", "unrealized", "value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range points {
		record := []string{
			p.Time.Format(time.RFC3339),
			p.Realized.String(),
			p.Unrealized.String(),
			p.Value.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
