// Package congestion derives the admission policy for new transactions from
// the fill levels of the cross-shard outgoing buffers. Blocking uses a
// hysteresis band rather than a single threshold: a pair that crosses the
// high watermark stays blocked until its fill drops back to the low
// watermark, so admission does not flap while fill hovers near one boundary.
package congestion

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Admission is the decision applied to new transactions for a shard pair.
type Admission int

// The set of admission decisions.
const (
	Allowed Admission = iota
	Blocked
)

// String implements the fmt.Stringer interface.
func (a Admission) String() string {
	if a == Blocked {
		return "blocked"
	}
	return "allowed"
}

// =============================================================================

// pairKey identifies one (source, destination) buffer.
type pairKey struct {
	source receipt.ShardID
	dest   receipt.ShardID
}

// PairStatus reports the congestion state of one (source, destination) pair.
type PairStatus struct {
	Source    receipt.ShardID `json:"source"`
	Dest      receipt.ShardID `json:"dest"`
	FillRatio float64         `json:"fill_ratio"`
	Admission Admission       `json:"-"`
}

// Controller computes admission decisions from buffer fill ratios. It also
// tracks, per shard, whether the last block ran the processor out of gas.
// That compute-saturation signal is kept separate from buffer fill: one
// reflects execution capacity, the other queued-but-undelivered backlog.
type Controller struct {
	high float64
	low  float64

	blocked      map[pairKey]bool
	fills        map[pairKey]float64
	gasSaturated map[receipt.ShardID]bool
	mu           sync.RWMutex
}

// New constructs a controller with the specified hysteresis band.
func New(highWatermark float64, lowWatermark float64) (*Controller, error) {
	if highWatermark <= 0 || highWatermark > 1 {
		return nil, fmt.Errorf("high watermark %.2f outside (0,1]", highWatermark)
	}
	if lowWatermark <= 0 || lowWatermark >= highWatermark {
		return nil, fmt.Errorf("low watermark %.2f must fall inside (0, high)", lowWatermark)
	}

	return &Controller{
		high:         highWatermark,
		low:          lowWatermark,
		blocked:      make(map[pairKey]bool),
		fills:        make(map[pairKey]float64),
		gasSaturated: make(map[receipt.ShardID]bool),
	}, nil
}

// Evaluate folds the current fill ratio of one (source, destination) buffer
// into the admission state and returns the resulting decision. Crossing the
// high watermark blocks the pair; only dropping to the low watermark or below
// unblocks it.
func (c *Controller) Evaluate(source receipt.ShardID, dest receipt.ShardID, fillRatio float64) Admission {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := pairKey{source: source, dest: dest}
	c.fills[key] = fillRatio

	switch {
	case fillRatio >= c.high:
		c.blocked[key] = true

	case fillRatio <= c.low:
		delete(c.blocked, key)
	}

	if c.blocked[key] {
		return Blocked
	}
	return Allowed
}

// Admission returns the current decision for transactions submitted at the
// source shard and addressed to the destination shard.
func (c *Controller) Admission(source receipt.ShardID, dest receipt.ShardID) Admission {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.blocked[pairKey{source: source, dest: dest}] {
		return Blocked
	}
	return Allowed
}

// RecordGasUse updates the compute-saturation signal for a shard after a
// block closes.
func (c *Controller) RecordGasUse(shard receipt.ShardID, exhausted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gasSaturated[shard] = exhausted
}

// GasSaturated reports whether the shard's last block stopped on gas
// exhaustion.
func (c *Controller) GasSaturated(shard receipt.ShardID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.gasSaturated[shard]
}

// Status returns the congestion state of every evaluated pair, ordered by
// (source, dest) for deterministic reporting.
func (c *Controller) Status() []PairStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := make([]PairStatus, 0, len(c.fills))
	for key, fill := range c.fills {
		adm := Allowed
		if c.blocked[key] {
			adm = Blocked
		}
		status = append(status, PairStatus{
			Source:    key.source,
			Dest:      key.dest,
			FillRatio: fill,
			Admission: adm,
		})
	}

	sort.Slice(status, func(i, j int) bool {
		if status[i].Source != status[j].Source {
			return status[i].Source < status[j].Source
		}
		return status[i].Dest < status[j].Dest
	})

	return status
}
