package admit

import (
	"sync"

	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Pool holds the transactions admitted at one shard, in submission order,
// until the shard's processor picks them up. Submissions arrive from API
// goroutines while the processor drains, so all operations lock.
type Pool struct {
	pending []receipt.Tx
	mu      sync.Mutex
}

// NewPool constructs an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add appends a transaction to the tail of the pool.
func (p *Pool) Add(tx receipt.Tx) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = append(p.pending, tx)
}

// Count returns the number of pending transactions.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.pending)
}

// Peek returns the oldest pending transaction without removing it. The
// processor peeks, charges gas, and only then removes, so a transaction
// interrupted by gas exhaustion stays pooled for the next block.
func (p *Pool) Peek() (receipt.Tx, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) == 0 {
		return receipt.Tx{}, false
	}

	return p.pending[0], true
}

// Remove drops the oldest pending transaction after it has been executed.
func (p *Pool) Remove() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) == 0 {
		return
	}

	p.pending = p.pending[1:]
}

// Copy returns the pending transactions in submission order for reporting.
func (p *Pool) Copy() []receipt.Tx {
	p.mu.Lock()
	defer p.mu.Unlock()

	cpy := make([]receipt.Tx, len(p.pending))
	copy(cpy, p.pending)

	return cpy
}
