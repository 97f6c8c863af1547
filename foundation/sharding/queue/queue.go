// Package queue maintains a shard's bounded incoming queue of receipts
// addressed to it, filled by peer shards' router deliveries and drained by
// the owning shard's processor.
package queue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// ErrCapacityMisconfigured is returned from New when the configured capacity
// would break the backpressure contract. An unbounded incoming queue would
// absorb every delivery and no buffer would ever fill.
var ErrCapacityMisconfigured = errors.New("incoming queue capacity misconfigured")

// ErrNoRoom is returned from Append when a delivery would push the queue past
// its capacity. The router checks Room before draining, so hitting this
// indicates a delivery raced past the room calculation.
var ErrNoRoom = errors.New("incoming queue has no room")

// Incoming is a bounded FIFO of receipts addressed to one shard. Capacity is
// measured in gas-equivalent units, matching the outgoing buffer accounting.
// The router appends and the owning processor consumes, so all operations
// lock.
type Incoming struct {
	capacity uint64
	filled   uint64
	pending  []receipt.Receipt
	mu       sync.Mutex
}

// New constructs an incoming queue with the specified gas capacity. A zero
// capacity is rejected as fatal misconfiguration.
func New(capacity uint64) (*Incoming, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("capacity must be a bounded positive amount of gas: %w", ErrCapacityMisconfigured)
	}

	return &Incoming{
		capacity: capacity,
	}, nil
}

// Room returns the gas-equivalent capacity still available. The router uses
// this to size its drain allowance for the destination.
func (q *Incoming) Room() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.capacity - q.filled
}

// Filled returns the gas-equivalent sum of the queued receipts.
func (q *Incoming) Filled() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.filled
}

// Len returns the number of queued receipts.
func (q *Incoming) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Append adds delivered receipts to the tail of the queue, preserving the
// order the router drained them in.
func (q *Incoming) Append(rs []receipt.Receipt) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	room := q.capacity - q.filled

	var total uint64
	for _, r := range rs {
		if r.Gas > room-total {
			return ErrNoRoom
		}
		total += r.Gas
	}

	q.pending = append(q.pending, rs...)
	q.filled += total

	return nil
}

// Peek returns the oldest queued receipt without removing it. The processor
// peeks, charges gas, and only then removes, so an item interrupted by gas
// exhaustion stays queued for the next block.
func (q *Incoming) Peek() (receipt.Receipt, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return receipt.Receipt{}, false
	}

	return q.pending[0], true
}

// Remove drops the oldest queued receipt after it has been executed.
func (q *Incoming) Remove() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return
	}

	q.filled -= q.pending[0].Gas
	q.pending = q.pending[1:]
}
