// Package buffer maintains the per (source, destination) queues of pending
// cross-shard receipts awaiting delivery. Capacity is measured in
// gas-equivalent units so buffer accounting and compute budgeting share one
// currency.
package buffer

import (
	"errors"
	"sync"

	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// ErrFull is returned from Enqueue when accepting the receipt would push the
// buffer past its capacity. The receipt is not accepted and must be retried
// by the caller in a later block.
var ErrFull = errors.New("outgoing buffer full")

// Outgoing is a FIFO of pending receipts for exactly one (source,
// destination) shard pair. Insertion order is delivery order. One writer (the
// owning shard's processor) and one mover (the router) share the buffer, so
// all operations lock.
type Outgoing struct {
	source   receipt.ShardID
	dest     receipt.ShardID
	capacity uint64
	filled   uint64
	pending  []receipt.Receipt
	mu       sync.Mutex
}

// NewOutgoing constructs the buffer for one (source, destination) pair.
func NewOutgoing(source receipt.ShardID, dest receipt.ShardID, capacity uint64) *Outgoing {
	return &Outgoing{
		source:   source,
		dest:     dest,
		capacity: capacity,
	}
}

// Source returns the owning shard.
func (b *Outgoing) Source() receipt.ShardID {
	return b.source
}

// Dest returns the destination shard this buffer feeds.
func (b *Outgoing) Dest() receipt.ShardID {
	return b.dest
}

// Enqueue appends the receipt to the tail of the buffer. It fails with
// ErrFull when the receipt's gas cost does not fit in the remaining capacity;
// the buffer never grows past its capacity.
func (b *Outgoing) Enqueue(r receipt.Receipt) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Gas > b.capacity-b.filled {
		return ErrFull
	}

	b.pending = append(b.pending, r)
	b.filled += r.Gas

	return nil
}

// FillRatio returns filled/capacity in the range [0.0, 1.0].
func (b *Outgoing) FillRatio() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return float64(b.filled) / float64(b.capacity)
}

// Filled returns the gas-equivalent sum of the queued receipts.
func (b *Outgoing) Filled() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.filled
}

// Len returns the number of queued receipts.
func (b *Outgoing) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.pending)
}

// Requeue puts receipts back at the head of the buffer in their original
// order, restoring the state before a DrainUpTo whose delivery could not
// complete. Capacity cannot overflow since the receipts were just drained.
func (b *Outgoing) Requeue(rs []receipt.Receipt) {
	if len(rs) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(append([]receipt.Receipt{}, rs...), b.pending...)
	for _, r := range rs {
		b.filled += r.Gas
	}
}

// DrainUpTo removes receipts from the head of the buffer while their
// cumulative gas cost stays within the allowance. Receipts are never split:
// if the head receipt does not fit in what remains of the allowance, the
// drain stops there. The call never blocks and may return an empty sequence.
func (b *Outgoing) DrainUpTo(allowance uint64) []receipt.Receipt {
	b.mu.Lock()
	defer b.mu.Unlock()

	var drained []receipt.Receipt
	var used uint64

	for len(b.pending) > 0 {
		head := b.pending[0]
		if used+head.Gas > allowance {
			break
		}

		drained = append(drained, head)
		used += head.Gas

		b.pending = b.pending[1:]
		b.filled -= head.Gas
	}

	return drained
}
