// Package router moves receipts from outgoing buffers into destination
// shards' incoming queues. This is the only path by which an outgoing buffer
// drains and an incoming queue fills; each receipt's move is one atomic
// transfer, so a receipt is never observable as removed from its source but
// absent from its destination across a block boundary.
package router

import (
	"sort"
	"sync"

	"github.com/shardcraft/ledger/foundation/sharding/buffer"
	"github.com/shardcraft/ledger/foundation/sharding/queue"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// EventHandler defines a function that is called when events occur during
// routing.
type EventHandler func(v string, args ...any)

// Endpoint bundles one shard's routing surfaces: the buffers it fills and
// the queue its peers deliver into.
type Endpoint struct {
	Shard receipt.ShardID
	Out   *buffer.Set
	In    *queue.Incoming
}

// Delivery records one (source, destination) transfer for the block's
// receipt trace.
type Delivery struct {
	Source   receipt.ShardID `json:"source"`
	Dest     receipt.ShardID `json:"dest"`
	Receipts int             `json:"receipts"`
	Gas      uint64          `json:"gas"`
}

// Router drains outgoing buffers into destination incoming queues once per
// block, after every shard has closed its block.
type Router struct {
	gasCap    uint64
	evHandler EventHandler
}

// New constructs a router with the specified per-round, per-pair gas cap.
func New(gasCap uint64, evHandler EventHandler) *Router {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Router{
		gasCap:    gasCap,
		evHandler: ev,
	}
}

// Deliver runs the routing phase for one block. Destinations are processed
// concurrently, one goroutine per destination, so two deliveries toward the
// same shard can never interleave and break FIFO order; sources toward a
// given destination are visited in ascending shard order for determinism.
func (r *Router) Deliver(round uint64, endpoints []Endpoint) []Delivery {
	sorted := make([]Endpoint, len(endpoints))
	copy(sorted, endpoints)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Shard < sorted[j].Shard })

	var mu sync.Mutex
	var deliveries []Delivery

	var wg sync.WaitGroup
	wg.Add(len(sorted))

	for _, dest := range sorted {
		go func(dest Endpoint) {
			defer wg.Done()

			made := r.deliverTo(round, dest, sorted)
			if len(made) == 0 {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			deliveries = append(deliveries, made...)
		}(dest)
	}

	wg.Wait()

	sort.Slice(deliveries, func(i, j int) bool {
		if deliveries[i].Dest != deliveries[j].Dest {
			return deliveries[i].Dest < deliveries[j].Dest
		}
		return deliveries[i].Source < deliveries[j].Source
	})

	return deliveries
}

// deliverTo drains every source buffer aimed at one destination. The drain
// allowance is the smaller of the per-round gas cap and the room left in the
// destination's incoming queue, recomputed after each source so the queue
// bound holds across sources. If the room is smaller than the head receipt's
// cost, zero receipts move from that buffer this round.
func (r *Router) deliverTo(round uint64, dest Endpoint, endpoints []Endpoint) []Delivery {
	var deliveries []Delivery

	for _, src := range endpoints {
		if src.Shard == dest.Shard {
			continue
		}

		buf := src.Out.Buffer(dest.Shard)
		if buf == nil || buf.Len() == 0 {
			continue
		}

		allowance := min(r.gasCap, dest.In.Room())
		if allowance == 0 {
			continue
		}

		moved := buf.DrainUpTo(allowance)
		if len(moved) == 0 {
			continue
		}

		if err := dest.In.Append(moved); err != nil {

			// The drain was sized by Room, so this only trips if the two
			// calls raced. Put the receipts back at the head of the buffer
			// rather than lose them.
			buf.Requeue(moved)
			r.evHandler("router: round %d: %s->%s: delivery bounced: %s", round, src.Shard, dest.Shard, err)
			continue
		}

		var gasMoved uint64
		for _, rc := range moved {
			gasMoved += rc.Gas
		}

		r.evHandler("router: round %d: %s->%s: delivered %d receipts, %d gas", round, src.Shard, dest.Shard, len(moved), gasMoved)

		deliveries = append(deliveries, Delivery{
			Source:   src.Shard,
			Dest:     dest.Shard,
			Receipts: len(moved),
			Gas:      gasMoved,
		})
	}

	return deliveries
}
