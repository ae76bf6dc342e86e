package engine

import (
	"errors"
	"fmt"
	"tradeperf/types"
)

var ErrInvalidTrade = errors.New("invalid trade")

// ValidationError describes the first malformed trade of a run.
type ValidationError struct {
	Index      int
	Instrument string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trade %d (%s): %s", e.Index, e.Instrument, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTrade
}

// ValidateTrades rejects the whole batch on the first malformed trade.
// A zero size is allowed and is a no-op during matching.
func ValidateTrades(trades []types.Trade) error {
	for i, tr := range trades {
		reason := ""
		switch {
		case tr.Instrument == "":
			reason = "missing instrument"
		case tr.Time.IsZero():
			reason = "missing timestamp"
		case !tr.Side.Valid():
			reason = fmt.Sprintf("unknown side %q", tr.Side)
		case tr.Size.IsNegative():
			reason = fmt.Sprintf("negative size %s", tr.Size)
		case !tr.Price.IsPositive():
			reason = fmt.Sprintf("non-positive price %s", tr.Price)
		}
		if reason != "" {
			return &ValidationError{Index: i, Instrument: tr.Instrument, Reason: reason}
		}
	}
	return nil
}
