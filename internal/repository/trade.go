package repository

import (
	"context"
	"time"
	"tradeperf/types"
)

// GetTrades loads the executed trades between from and to, both inclusive.
// A zero time leaves that bound open.
func (db *Database) GetTrades(ctx context.Context, from, to time.Time) ([]types.TradeRecord, error) {
	var arg listTradesParams
	if !from.IsZero() {
		arg.From = &from
	}
	if !to.IsZero() {
		arg.To = &to
	}
	rows, err := db.trades.ListTrades(ctx, arg)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoTrades
	}
	return convertTrades(rows), nil
}

func convertTrades(rows []tradeRow) []types.TradeRecord {
	records := make([]types.TradeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, types.TradeRecord{
			Instrument: row.Instrument,
			Time:       row.ExecutedAt,
			Side:       row.Side,
			Size:       row.Size,
			Price:      row.Price,
		})
	}
	return records
}
