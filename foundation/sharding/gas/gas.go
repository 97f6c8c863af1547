// Package gas tracks cumulative gas consumed by a shard within one block
// against a fixed per-block budget.
package gas

import "errors"

// ErrExhausted is returned from Consume when the requested amount would push
// the running total past the block budget. The caller must stop processing
// further work items for the block; the running total is left unchanged.
var ErrExhausted = errors.New("gas budget exhausted")

// Meter tracks the gas consumed by one shard for the current block. A Meter
// is owned by a single shard processor and is not safe for concurrent use.
type Meter struct {
	budget    uint64
	used      uint64
	exhausted bool
}

// NewMeter constructs a meter with the specified per-block budget.
func NewMeter(budget uint64) *Meter {
	return &Meter{
		budget: budget,
	}
}

// Consume attempts to charge the specified amount against the block budget.
// The running total is mutated only on success. The guard compares against
// the remaining headroom so an oversized amount cannot wrap the arithmetic.
func (m *Meter) Consume(amount uint64) error {
	if amount > m.budget-m.used {
		m.exhausted = true
		return ErrExhausted
	}

	m.used += amount
	return nil
}

// Reset clears the running total at a block boundary.
func (m *Meter) Reset() {
	m.used = 0
	m.exhausted = false
}

// Used returns the gas consumed so far in the current block.
func (m *Meter) Used() uint64 {
	return m.used
}

// Budget returns the immutable per-block budget.
func (m *Meter) Budget() uint64 {
	return m.budget
}

// Remaining returns the gas still available in the current block.
func (m *Meter) Remaining() uint64 {
	return m.budget - m.used
}

// Exhausted reports whether a Consume call failed during the current block.
// This is the compute-saturation signal, tracked separately from any buffer
// fill level.
func (m *Meter) Exhausted() bool {
	return m.exhausted
}
