package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Price returns the close of the last candle at or before at. It satisfies
// engine.PriceSource.
func (db *Database) Price(ctx context.Context, ticker string, at time.Time) (decimal.Decimal, error) {
	asset, err := db.GetAssetByTicker(ctx, ticker)
	if err != nil {
		return decimal.Zero, err
	}
	price, err := db.candles.GetLastClose(ctx, int32(asset.Id), at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("ticker %s before %s: %w", ticker, at.Format(time.RFC3339), ErrNoCandles)
		}
		return decimal.Zero, err
	}
	return price, nil
}
