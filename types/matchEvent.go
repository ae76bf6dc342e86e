package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchEvent is one realized profit record, produced when a trade offsets
// part or all of an open lot. Direction is the side of the lot that was closed.
type MatchEvent struct {
	Instrument string
	Time       time.Time
	Direction  Direction
	Size       decimal.Decimal
	EntryPrice decimal.Decimal
	ExitPrice  decimal.Decimal
	Profit     decimal.Decimal
}

func NewMatchEvent(instrument string, at time.Time, dir Direction, size, entry, exit decimal.Decimal) MatchEvent {
	var profit decimal.Decimal
	if dir == DirectionShort {
		profit = entry.Sub(exit).Mul(size)
	} else {
		profit = exit.Sub(entry).Mul(size)
	}
	return MatchEvent{
		Instrument: instrument,
		Time:       at,
		Direction:  dir,
		Size:       size,
		EntryPrice: entry,
		ExitPrice:  exit,
		Profit:     profit,
	}
}
