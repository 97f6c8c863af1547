// Package genesis maintains access to the genesis file that fixes the shard
// set and the congestion-control parameters for the life of the chain.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shardcraft/ledger/foundation/sharding/queue"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Genesis represents the genesis file.
type Genesis struct {
	ChainID               uint16  `json:"chain_id"`                // Unique id for this running instance.
	Shards                int     `json:"shards"`                  // Size of the fixed shard set.
	GasBudget             uint64  `json:"gas_budget"`              // Tgas each shard may consume per block.
	BufferCapacity        uint64  `json:"buffer_capacity"`         // Tgas capacity of each outgoing buffer.
	HighWatermark         float64 `json:"high_watermark"`          // Fill ratio at which admission blocks.
	LowWatermark          float64 `json:"low_watermark"`           // Fill ratio at which admission resumes.
	IncomingQueueCapacity uint64  `json:"incoming_queue_capacity"` // Tgas capacity of each incoming queue.
	RouterGasCap          uint64  `json:"router_gas_cap"`          // Tgas the router moves per pair per round.
}

// ShardSet returns the fixed set of shard ids, 0 through Shards-1.
func (g Genesis) ShardSet() []receipt.ShardID {
	set := make([]receipt.ShardID, g.Shards)
	for i := range set {
		set[i] = receipt.ShardID(i)
	}
	return set
}

// MaxTxGas returns the largest per-item gas cost the configuration can carry
// end to end: the block budget, bounded by every buffer, queue, and router
// allowance a receipt must traverse. Admission rejects anything larger since
// it could never execute or deliver and would wedge its shard's pool.
func (g Genesis) MaxTxGas() uint64 {
	return min(g.GasBudget, g.BufferCapacity, g.IncomingQueueCapacity, g.RouterGasCap)
}

// Validate checks the parameters keep the backpressure contract intact.
// Breaking it is fatal at startup, not a runtime condition.
func (g Genesis) Validate() error {
	if g.Shards < 2 {
		return fmt.Errorf("shard set of %d cannot exchange cross-shard receipts", g.Shards)
	}
	if g.GasBudget == 0 {
		return fmt.Errorf("gas budget must be positive")
	}
	if g.BufferCapacity == 0 {
		return fmt.Errorf("buffer capacity must be positive")
	}
	if g.HighWatermark <= 0 || g.HighWatermark > 1 {
		return fmt.Errorf("high watermark %.2f outside (0,1]", g.HighWatermark)
	}
	if g.LowWatermark <= 0 || g.LowWatermark >= g.HighWatermark {
		return fmt.Errorf("low watermark %.2f must fall inside (0, high)", g.LowWatermark)
	}
	if g.IncomingQueueCapacity == 0 {
		return fmt.Errorf("incoming queue capacity of 0: %w", queue.ErrCapacityMisconfigured)
	}
	if g.RouterGasCap == 0 {
		return fmt.Errorf("router gas cap must be positive")
	}

	return nil
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("invalid genesis: %w", err)
	}

	return genesis, nil
}
