package buffer

import "github.com/shardcraft/ledger/foundation/sharding/receipt"

// Outbox holds receipts a shard produced but could not place into an
// outgoing buffer because the buffer was full. Receipts wait here, in
// emission order, for retry in a later block. Nothing is ever dropped: a
// receipt leaves the outbox only by a successful Enqueue.
//
// The outbox is owned by a single shard processor and is not safe for
// concurrent use.
type Outbox struct {
	pending []receipt.Receipt
}

// Len returns the number of receipts awaiting retry.
func (o *Outbox) Len() int {
	return len(o.pending)
}

// Gas returns the gas-equivalent sum of the receipts awaiting retry.
func (o *Outbox) Gas() uint64 {
	var total uint64
	for _, r := range o.pending {
		total += r.Gas
	}
	return total
}

// Add appends a receipt that failed to enqueue. Emission order is preserved
// so a later flush cannot reorder receipts for a given destination.
func (o *Outbox) Add(r receipt.Receipt) {
	o.pending = append(o.pending, r)
}

// Holds reports whether the outbox already holds a receipt for the specified
// destination. When it does, newly emitted receipts for that destination must
// also go through the outbox or they would overtake the waiting ones.
func (o *Outbox) Holds(dest receipt.ShardID) bool {
	for _, r := range o.pending {
		if r.Dest == dest {
			return true
		}
	}
	return false
}

// Flush retries every waiting receipt against its outgoing buffer, in order.
// A receipt that still does not fit stays in the outbox, and so does every
// later receipt for the same destination regardless of size, preserving FIFO
// delivery per destination. Flush returns the number of receipts placed.
func (o *Outbox) Flush(set *Set) int {
	if len(o.pending) == 0 {
		return 0
	}

	var placed int
	var kept []receipt.Receipt
	stuck := make(map[receipt.ShardID]bool)

	for _, r := range o.pending {
		if stuck[r.Dest] {
			kept = append(kept, r)
			continue
		}

		if err := set.Buffer(r.Dest).Enqueue(r); err != nil {
			stuck[r.Dest] = true
			kept = append(kept, r)
			continue
		}
		placed++
	}

	o.pending = kept
	return placed
}
