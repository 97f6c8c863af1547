package mesh

import (
	"github.com/shardcraft/ledger/foundation/sharding/genesis"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// BufferFill reports the current backlog of one (source, destination) buffer.
type BufferFill struct {
	Source    receipt.ShardID `json:"source"`
	Dest      receipt.ShardID `json:"dest"`
	Filled    uint64          `json:"filled"`
	Capacity  uint64          `json:"capacity"`
	FillRatio float64         `json:"fill_ratio"`
	Receipts  int             `json:"receipts"`
}

// ShardStatus reports one shard's standing queues between rounds.
type ShardStatus struct {
	Shard            receipt.ShardID `json:"shard"`
	PendingTxs       int             `json:"pending_txs"`
	IncomingFilled   uint64          `json:"incoming_filled"`
	IncomingReceipts int             `json:"incoming_receipts"`
	OutboxReceipts   int             `json:"outbox_receipts"`
	GasSaturated     bool            `json:"gas_saturated"`
}

// RetrieveGenesis returns a copy of the genesis information.
func (m *Mesh) RetrieveGenesis() genesis.Genesis {
	return m.genesis
}

// QueryRound returns the number of the last closed round.
func (m *Mesh) QueryRound() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.round
}

// QueryCongestion returns the congestion state of every (source, destination)
// pair.
func (m *Mesh) QueryCongestion() []CongestionStatus {
	return m.congestionStatus()
}

// QueryBufferFills returns the backlog of every outgoing buffer.
func (m *Mesh) QueryBufferFills() []BufferFill {
	var fills []BufferFill

	for _, shard := range m.shards {
		for _, dest := range shard.outgoing.Destinations() {
			buf := shard.outgoing.Buffer(dest)
			fills = append(fills, BufferFill{
				Source:    shard.id,
				Dest:      dest,
				Filled:    buf.Filled(),
				Capacity:  m.genesis.BufferCapacity,
				FillRatio: buf.FillRatio(),
				Receipts:  buf.Len(),
			})
		}
	}

	return fills
}

// QueryShardStatus returns every shard's standing queues.
func (m *Mesh) QueryShardStatus() []ShardStatus {
	status := make([]ShardStatus, len(m.shards))

	for i, shard := range m.shards {
		status[i] = ShardStatus{
			Shard:            shard.id,
			PendingTxs:       shard.pool.Count(),
			IncomingFilled:   shard.incoming.Filled(),
			IncomingReceipts: shard.incoming.Len(),
			OutboxReceipts:   shard.outbox.Len(),
			GasSaturated:     m.controller.GasSaturated(shard.id),
		}
	}

	return status
}

// QueryLatestTrace returns the receipt trace of the last closed block.
func (m *Mesh) QueryLatestTrace() (BlockTrace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.traces) == 0 {
		return BlockTrace{}, false
	}

	return m.traces[len(m.traces)-1], true
}

// QueryTrace returns the receipt trace of the specified round if it is still
// in the retained history.
func (m *Mesh) QueryTrace(round uint64) (BlockTrace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, trace := range m.traces {
		if trace.Round == round {
			return trace, true
		}
	}

	return BlockTrace{}, false
}
