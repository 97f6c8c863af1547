// Package mesh is the core API for the sharded ledger's congestion-control
// machinery. It owns the fixed shard set, runs the lockstep block rounds, and
// implements all the business rules for admission, execution, and cross-shard
// delivery.
package mesh

import (
	"fmt"
	"sync"

	"github.com/shardcraft/ledger/foundation/sharding/admit"
	"github.com/shardcraft/ledger/foundation/sharding/buffer"
	"github.com/shardcraft/ledger/foundation/sharding/congestion"
	"github.com/shardcraft/ledger/foundation/sharding/gas"
	"github.com/shardcraft/ledger/foundation/sharding/genesis"
	"github.com/shardcraft/ledger/foundation/sharding/processor"
	"github.com/shardcraft/ledger/foundation/sharding/queue"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
	"github.com/shardcraft/ledger/foundation/sharding/router"
)

// EventHandler defines a function that is called when events occur in the
// processing of block rounds.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for driving block rounds in the background.
type Worker interface {
	Shutdown()
	SignalRound()
	Pause()
	Resume()
	Paused() bool
}

// =============================================================================

// Shard bundles everything one shard owns: its gas meter, its outgoing
// buffers, its incoming queue, its transaction pool, and its processor.
type Shard struct {
	id        receipt.ShardID
	meter     *gas.Meter
	incoming  *queue.Incoming
	outgoing  *buffer.Set
	outbox    *buffer.Outbox
	pool      *admit.Pool
	admitter  *admit.Admitter
	processor *processor.Processor
}

// ID returns the shard's identity.
func (s *Shard) ID() receipt.ShardID {
	return s.id
}

// =============================================================================

// Config represents the configuration required to start the mesh.
type Config struct {
	Genesis   genesis.Genesis
	Applier   processor.Applier
	EvHandler EventHandler
}

// Mesh manages the shard set and the block rounds.
type Mesh struct {
	genesis    genesis.Genesis
	evHandler  EventHandler
	controller *congestion.Controller
	router     *router.Router
	shards     []*Shard
	endpoints  []router.Endpoint

	mu     sync.Mutex
	round  uint64
	traces []BlockTrace

	Worker Worker
}

// New constructs the mesh from the genesis parameters. The applier is the
// external execution engine; when nil, the default hop-forwarding engine is
// used.
func New(cfg Config) (*Mesh, error) {
	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	applier := cfg.Applier
	if applier == nil {
		applier = processor.HopApplier{}
	}

	controller, err := congestion.New(cfg.Genesis.HighWatermark, cfg.Genesis.LowWatermark)
	if err != nil {
		return nil, fmt.Errorf("constructing congestion controller: %w", err)
	}

	shardSet := cfg.Genesis.ShardSet()

	shards := make([]*Shard, 0, len(shardSet))
	endpoints := make([]router.Endpoint, 0, len(shardSet))

	for _, id := range shardSet {
		incoming, err := queue.New(cfg.Genesis.IncomingQueueCapacity)
		if err != nil {
			return nil, fmt.Errorf("constructing incoming queue for %s: %w", id, err)
		}

		shard := Shard{
			id:       id,
			meter:    gas.NewMeter(cfg.Genesis.GasBudget),
			incoming: incoming,
			outgoing: buffer.NewSet(id, shardSet, cfg.Genesis.BufferCapacity),
			outbox:   &buffer.Outbox{},
			pool:     admit.NewPool(),
		}
		shard.admitter = admit.NewAdmitter(id, cfg.Genesis.MaxTxGas(), controller, shard.pool)
		shard.processor = processor.New(processor.Config{
			Shard:     id,
			Meter:     shard.meter,
			Incoming:  shard.incoming,
			Outgoing:  shard.outgoing,
			Outbox:    shard.outbox,
			Pool:      shard.pool,
			Applier:   applier,
			EvHandler: ev,
		})

		shards = append(shards, &shard)
		endpoints = append(endpoints, router.Endpoint{
			Shard: id,
			Out:   shard.outgoing,
			In:    shard.incoming,
		})
	}

	mesh := Mesh{
		genesis:    cfg.Genesis,
		evHandler:  ev,
		controller: controller,
		router:     router.New(cfg.Genesis.RouterGasCap, ev),
		shards:     shards,
		endpoints:  endpoints,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start the round schedule.

	return &mesh, nil
}

// Shutdown cleanly brings the mesh down.
func (m *Mesh) Shutdown() error {
	if m.Worker != nil {
		m.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// SubmitTransaction gates a new transaction through the originating shard's
// admitter. A transaction bound for a congested destination is rejected here,
// before it ever reaches a processor.
func (m *Mesh) SubmitTransaction(tx receipt.Tx) error {
	if int(tx.Origin) < 0 || int(tx.Origin) >= len(m.shards) {
		return fmt.Errorf("unknown origin shard %d", tx.Origin)
	}
	if int(tx.Dest) < 0 || int(tx.Dest) >= len(m.shards) {
		return fmt.Errorf("unknown destination shard %d", tx.Dest)
	}
	for _, hop := range tx.Hops {
		if int(hop) < 0 || int(hop) >= len(m.shards) {
			return fmt.Errorf("unknown hop shard %d", hop)
		}
	}

	// Walk the execution sites the work will visit. A hop that names the
	// shard already executing it would produce a receipt addressed to its
	// own shard, which no outgoing buffer exists to carry.
	site := tx.Origin
	if tx.Dest != site {
		site = tx.Dest
	}
	for _, hop := range tx.Hops {
		if hop == site {
			return fmt.Errorf("hop shard %d targets the shard executing it", hop)
		}
		site = hop
	}

	if err := m.shards[tx.Origin].admitter.Submit(tx); err != nil {
		m.evHandler("mesh: submit: tx[%s] %s->%s: %s", tx.Hash(), tx.Origin, tx.Dest, err)
		return err
	}

	m.evHandler("mesh: submit: tx[%s] accepted at %s for %s", tx.Hash(), tx.Origin, tx.Dest)

	return nil
}
