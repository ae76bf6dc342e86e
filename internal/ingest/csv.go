// Package ingest reads raw trade histories and normalizes them into types.Trade.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"tradeperf/types"

	"github.com/shopspring/decimal"
)

var ErrMalformedRecord = errors.New("malformed trade record")

var requiredColumns = []string{"date", "symbol", "side", "size", "price"}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadTradesFile opens path and reads it with ReadTrades.
func ReadTradesFile(path string) ([]types.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trades file: %w", err)
	}
	defer f.Close()
	return ReadTrades(f)
}

// ReadTrades reads a CSV with a date,symbol,side,size,price header. Column
// order and header case are free. A blank size defaults to one.
func ReadTrades(r io.Reader) ([]types.Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var trades []types.Trade
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseRecord(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tr, err := types.NormalizeTrade(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", line, ErrMalformedRecord, err)
		}
		trades = append(trades, tr)
	}
	return trades, nil
}

// NormalizeAll normalizes records from another ingestion source, such as the database.
func NormalizeAll(records []types.TradeRecord) ([]types.Trade, error) {
	trades := make([]types.Trade, 0, len(records))
	for i, rec := range records {
		tr, err := types.NormalizeTrade(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w: %w", i, ErrMalformedRecord, err)
		}
		trades = append(trades, tr)
	}
	return trades, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q: %w", name, ErrMalformedRecord)
		}
	}
	return cols, nil
}

func parseRecord(row []string, cols map[string]int) (types.TradeRecord, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	at, err := parseTime(field("date"))
	if err != nil {
		return types.TradeRecord{}, err
	}
	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return types.TradeRecord{}, fmt.Errorf("price %q: %w", field("price"), ErrMalformedRecord)
	}
	var size decimal.NullDecimal
	if raw := field("size"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return types.TradeRecord{}, fmt.Errorf("size %q: %w", raw, ErrMalformedRecord)
		}
		size = decimal.NewNullDecimal(d)
	}
	return types.TradeRecord{
		Instrument: field("symbol"),
		Time:       at,
		Side:       field("side"),
		Size:       size,
		Price:      price,
	}, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: %w", raw, ErrMalformedRecord)
}
