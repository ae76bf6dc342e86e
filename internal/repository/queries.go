package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type assetRow struct {
	ID     int32
	Ticker string
	Name   string
}

type tradeRow struct {
	ID         int64
	Instrument string
	ExecutedAt time.Time
	Side       string
	Size       decimal.NullDecimal
	Price      decimal.Decimal
}

type listTradesParams struct {
	From *time.Time
	To   *time.Time
}

// querier is the subset of pgxpool.Pool the queries need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db querier
}

func newQueries(pool *pgxpool.Pool) *queries {
	return &queries{db: pool}
}

const getAssetByTicker = `SELECT id, ticker, name FROM assets WHERE ticker = $1`

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var a assetRow
	err := q.db.QueryRow(ctx, getAssetByTicker, ticker).Scan(&a.ID, &a.Ticker, &a.Name)
	return a, err
}

const getLastClose = `SELECT close FROM candles
WHERE asset_id = $1 AND timestamp <= $2
ORDER BY timestamp DESC
LIMIT 1`

func (q *queries) GetLastClose(ctx context.Context, assetID int32, at time.Time) (decimal.Decimal, error) {
	var c decimal.Decimal
	err := q.db.QueryRow(ctx, getLastClose, assetID, at).Scan(&c)
	return c, err
}

const listTrades = `SELECT id, instrument, executed_at, side, size, price FROM trades
WHERE ($1::timestamptz IS NULL OR executed_at >= $1)
  AND ($2::timestamptz IS NULL OR executed_at <= $2)
ORDER BY executed_at ASC, id ASC`

func (q *queries) ListTrades(ctx context.Context, arg listTradesParams) ([]tradeRow, error) {
	rows, err := q.db.Query(ctx, listTrades, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (tradeRow, error) {
		var t tradeRow
		err := row.Scan(&t.ID, &t.Instrument, &t.ExecutedAt, &t.Side, &t.Size, &t.Price)
		return t, err
	})
}
