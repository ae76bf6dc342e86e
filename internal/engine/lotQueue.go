package engine

import (
	"tradeperf/types"

	"github.com/shopspring/decimal"
)

// lotQueue is a FIFO of open lots. The oldest lot is at the front.
type lotQueue struct {
	lots []types.Lot
	head int
}

func (q *lotQueue) Len() int {
	return len(q.lots) - q.head
}

func (q *lotQueue) Empty() bool {
	return q.Len() == 0
}

func (q *lotQueue) PushBack(l types.Lot) {
	q.lots = append(q.lots, l)
}

// PushFront puts a partially consumed lot back in front of the queue.
func (q *lotQueue) PushFront(l types.Lot) {
	if q.head > 0 {
		q.head--
		q.lots[q.head] = l
		return
	}
	q.lots = append([]types.Lot{l}, q.lots...)
}

func (q *lotQueue) PopFront() (types.Lot, bool) {
	if q.Empty() {
		return types.Lot{}, false
	}
	l := q.lots[q.head]
	q.lots[q.head] = types.Lot{}
	q.head++
	if q.Empty() {
		q.lots = q.lots[:0]
		q.head = 0
	}
	return l, true
}

// Total is the summed size of every lot in the queue.
func (q *lotQueue) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.lots[q.head:] {
		total = total.Add(l.Size)
	}
	return total
}

// Lots returns a copy of the queue content, oldest first.
func (q *lotQueue) Lots() []types.Lot {
	if q.Empty() {
		return nil
	}
	out := make([]types.Lot, q.Len())
	copy(out, q.lots[q.head:])
	return out
}
