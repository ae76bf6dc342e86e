package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownSide = errors.New("unknown trade side")

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
)

// Direction returns +1 for a buy and -1 for a sell.
func (s Side) Direction() int {
	switch s {
	case SideTypeBuy:
		return 1
	case SideTypeSell:
		return -1
	}
	return 0
}

func (s Side) Valid() bool {
	return s == SideTypeBuy || s == SideTypeSell
}

// ParseSide maps a raw side field ("buy", "SELL", " Buy ") to a Side.
func ParseSide(raw string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy":
		return SideTypeBuy, nil
	case "sell":
		return SideTypeSell, nil
	}
	return "", fmt.Errorf("%q: %w", raw, ErrUnknownSide)
}

// Trade is a normalized executed fill.
type Trade struct {
	Instrument string          `json:"instrument"`
	Time       time.Time       `json:"time"`
	Side       Side            `json:"side"`
	Size       decimal.Decimal `json:"size"`
	Price      decimal.Decimal `json:"price"`
}

// TradeRecord is a trade as delivered by an ingestion source, before normalization.
type TradeRecord struct {
	Instrument string
	Time       time.Time
	Side       string
	Size       decimal.NullDecimal
	Price      decimal.Decimal
}

var DefaultTradeSize = decimal.NewFromInt(1)

// NormalizeTrade parses the side and defaults a missing size to DefaultTradeSize.
// Range checks on size and price are left to the engine validation.
func NormalizeTrade(rec TradeRecord) (Trade, error) {
	side, err := ParseSide(rec.Side)
	if err != nil {
		return Trade{}, err
	}
	size := DefaultTradeSize
	if rec.Size.Valid {
		size = rec.Size.Decimal
	}
	return Trade{
		Instrument: rec.Instrument,
		Time:       rec.Time,
		Side:       side,
		Size:       size,
		Price:      rec.Price,
	}, nil
}

func NewTrade(instrument string, at time.Time, side Side, size, price decimal.Decimal) Trade {
	return Trade{
		Instrument: instrument,
		Time:       at,
		Side:       side,
		Size:       size,
		Price:      price,
	}
}
