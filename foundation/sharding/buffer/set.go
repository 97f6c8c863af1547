package buffer

import (
	"sort"

	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Set owns every outgoing buffer for one source shard, one buffer per other
// shard in the fixed shard set. Buffers for unrelated destinations are
// independent so delivery toward one congested shard never contends with
// traffic toward the others.
type Set struct {
	source  receipt.ShardID
	buffers map[receipt.ShardID]*Outgoing
}

// NewSet constructs the outgoing buffers for the specified source shard, one
// per destination in the shard set, each with the same gas capacity.
func NewSet(source receipt.ShardID, shards []receipt.ShardID, capacity uint64) *Set {
	buffers := make(map[receipt.ShardID]*Outgoing)
	for _, dest := range shards {
		if dest == source {
			continue
		}
		buffers[dest] = NewOutgoing(source, dest, capacity)
	}

	return &Set{
		source:  source,
		buffers: buffers,
	}
}

// Source returns the owning shard.
func (s *Set) Source() receipt.ShardID {
	return s.source
}

// Buffer returns the outgoing buffer toward the specified destination, or nil
// when the destination is not part of the shard set.
func (s *Set) Buffer(dest receipt.ShardID) *Outgoing {
	return s.buffers[dest]
}

// Destinations returns the destination shards in ascending order so callers
// iterate the set deterministically.
func (s *Set) Destinations() []receipt.ShardID {
	dests := make([]receipt.ShardID, 0, len(s.buffers))
	for dest := range s.buffers {
		dests = append(dests, dest)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })

	return dests
}
