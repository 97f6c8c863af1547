package mesh

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shardcraft/ledger/foundation/sharding/congestion"
	"github.com/shardcraft/ledger/foundation/sharding/processor"
	"github.com/shardcraft/ledger/foundation/sharding/router"
)

// maxTraceHistory bounds the number of closed-block traces kept in memory
// for the query API.
const maxTraceHistory = 64

// BlockTrace is the observable record of one closed block round: what every
// shard executed, what the router moved, and the congestion state that will
// govern admission for the next round.
type BlockTrace struct {
	Round      uint64             `json:"round"`
	Shards     []processor.Report `json:"shards"`
	Deliveries []router.Delivery  `json:"deliveries"`
	Congestion []CongestionStatus `json:"congestion"`
}

// CongestionStatus reports one pair's admission state in a trace.
type CongestionStatus struct {
	congestion.PairStatus
	Admission string `json:"admission"`
}

// RunRound executes one complete block round: every shard processes its block
// in parallel, congestion is recomputed from the resulting buffer fills, the
// router delivers, and congestion is recomputed again so next-round admission
// reflects the post-delivery fills. Rounds are serialized; the returned trace
// is the round's receipt trace.
func (m *Mesh) RunRound() (BlockTrace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.round++
	round := m.round

	m.evHandler("mesh: round %d: begin block", round)

	// Every shard's block is independent of every other's; the router phase
	// below is the only cross-shard interaction point.
	reports := make([]processor.Report, len(m.shards))

	var wg sync.WaitGroup
	wg.Add(len(m.shards))

	for i, shard := range m.shards {
		go func(i int, shard *Shard) {
			defer wg.Done()
			reports[i] = shard.processor.RunBlock(round)
		}(i, shard)
	}

	wg.Wait()

	// Fold the post-execution fills into the admission state first so a
	// buffer that peaked this block trips its high watermark even if the
	// router is about to drain it below.
	m.evaluateFills()

	for _, rep := range reports {
		m.controller.RecordGasUse(rep.Shard, rep.Exhausted)
	}

	deliveries := m.router.Deliver(round, m.endpoints)

	// Recompute once more after delivery; this is the state the next round's
	// admission decisions actually use.
	m.evaluateFills()

	trace := BlockTrace{
		Round:      round,
		Shards:     reports,
		Deliveries: deliveries,
		Congestion: m.congestionStatus(),
	}

	m.traces = append(m.traces, trace)
	if len(m.traces) > maxTraceHistory {
		m.traces = m.traces[len(m.traces)-maxTraceHistory:]
	}

	m.evHandler("mesh: round %d: end block: %d deliveries", round, len(deliveries))
	m.traceEvent(trace)

	return trace, nil
}

// evaluateFills runs every (source, destination) buffer's current fill ratio
// through the congestion controller's hysteresis.
func (m *Mesh) evaluateFills() {
	for _, shard := range m.shards {
		for _, dest := range shard.outgoing.Destinations() {
			buf := shard.outgoing.Buffer(dest)
			m.controller.Evaluate(shard.id, dest, buf.FillRatio())
		}
	}
}

// congestionStatus captures the controller state for a trace.
func (m *Mesh) congestionStatus() []CongestionStatus {
	pairs := m.controller.Status()

	status := make([]CongestionStatus, len(pairs))
	for i, pair := range pairs {
		status[i] = CongestionStatus{
			PairStatus: pair,
			Admission:  pair.Admission.String(),
		}
	}

	return status
}

// traceEvent provides a specific event about a closed block for application
// support such as the events websocket.
func (m *Mesh) traceEvent(trace BlockTrace) {
	data, err := json.Marshal(trace)
	if err != nil {
		data = fmt.Appendf(nil, "%q", err.Error())
	}

	m.evHandler(`viewer: block: %s`, string(data))
}
