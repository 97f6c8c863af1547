// Package admit gates transactions at submission time. A transaction whose
// destination shard is congested is rejected before it ever reaches a shard
// processor; an accepted transaction waits in the originating shard's pool
// for the next block.
package admit

import (
	"errors"
	"fmt"

	"github.com/shardcraft/ledger/foundation/sharding/congestion"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// ErrDestinationCongested is returned from Submit when the outgoing buffer
// toward the transaction's destination is saturated. The rejection is
// terminal for this submission attempt; any retry policy belongs to the
// caller.
var ErrDestinationCongested = errors.New("destination shard congested")

// ErrGasOverBudget is returned from Submit when the transaction declares a
// gas cost no block could ever execute or deliver. Pooling it would wedge
// the pool head forever and starve everything behind it.
var ErrGasOverBudget = errors.New("transaction gas exceeds what a block can carry")

// Admitter gates new transactions for one originating shard.
type Admitter struct {
	origin     receipt.ShardID
	maxGas     uint64
	controller *congestion.Controller
	pool       *Pool
}

// NewAdmitter constructs the admission gate for the specified shard. The
// maxGas ceiling is the largest per-item cost the chain configuration can
// carry end to end.
func NewAdmitter(origin receipt.ShardID, maxGas uint64, controller *congestion.Controller, pool *Pool) *Admitter {
	return &Admitter{
		origin:     origin,
		maxGas:     maxGas,
		controller: controller,
		pool:       pool,
	}
}

// Submit accepts or rejects a transaction. Local transactions (destination is
// the originating shard) never consult the buffers since they cross no shard
// boundary on their first hop.
func (a *Admitter) Submit(tx receipt.Tx) error {
	if tx.Gas > a.maxGas {
		return fmt.Errorf("tx[%s] gas %d over ceiling %d: %w", tx.Hash(), tx.Gas, a.maxGas, ErrGasOverBudget)
	}

	if tx.Dest != a.origin {
		if a.controller.Admission(a.origin, tx.Dest) == congestion.Blocked {
			return fmt.Errorf("tx[%s] to %s: %w", tx.Hash(), tx.Dest, ErrDestinationCongested)
		}
	}

	a.pool.Add(tx)
	return nil
}
