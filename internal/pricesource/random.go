// Package pricesource holds price sources that do not need a database.
package pricesource

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Random draws prices uniformly from [Min, Max). It is a stand-in for a real
// price oracle when no candle data is available.
type Random struct {
	min, max float64
	seed     int64
	reseed   bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a free running source: successive calls return different prices.
func NewRandom(lo, hi float64, seed int64) *Random {
	return &Random{min: lo, max: hi, seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// NewSeededRandom returns a source that reseeds before every call, so every
// call returns the same price.
func NewSeededRandom(lo, hi float64, seed int64) *Random {
	r := NewRandom(lo, hi, seed)
	r.reseed = true
	return r
}

func (r *Random) Price(_ context.Context, _ string, _ time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reseed {
		r.rng.Seed(r.seed)
	}
	v := r.min + r.rng.Float64()*(r.max-r.min)
	if v >= r.max {
		v = math.Nextafter(r.max, r.min)
	}
	return decimal.NewFromFloat(v), nil
}
