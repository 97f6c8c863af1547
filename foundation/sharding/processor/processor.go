// Package processor executes one shard's work for one block: queued incoming
// receipts first, then admitted local transactions, bounded by the shard's
// gas meter. Emitted receipts land in the shard's outgoing buffers; anything
// that does not fit anywhere is deferred, never dropped.
package processor

import (
	"errors"

	"github.com/shardcraft/ledger/foundation/sharding/admit"
	"github.com/shardcraft/ledger/foundation/sharding/buffer"
	"github.com/shardcraft/ledger/foundation/sharding/gas"
	"github.com/shardcraft/ledger/foundation/sharding/queue"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Status represents where in the per-block state machine the processor
// currently is.
type Status string

// The per-block processing states. A block always ends in BlockClosed which
// hands control to the router.
const (
	StatusIdle              Status = "idle"
	StatusConsumingIncoming Status = "consuming-incoming"
	StatusConsumingLocal    Status = "consuming-local"
	StatusExhausted         Status = "exhausted"
	StatusDrained           Status = "drained"
	StatusBlockClosed       Status = "block-closed"
)

// EventHandler defines a function that is called when events occur during
// block processing.
type EventHandler func(v string, args ...any)

// =============================================================================

// ItemKind distinguishes the two kinds of work a shard executes.
type ItemKind int

// The set of work item kinds.
const (
	KindReceipt ItemKind = iota
	KindTx
)

// Item is one unit of work handed to the execution engine.
type Item struct {
	Kind    ItemKind
	Receipt receipt.Receipt
	Tx      receipt.Tx
}

// ID returns the identity of the underlying work item.
func (it Item) ID() string {
	if it.Kind == KindReceipt {
		return it.Receipt.ID
	}
	return it.Tx.Hash()
}

// Applied is the outcome of executing one work item.
type Applied struct {
	OK      bool
	GasUsed uint64
	Emitted []receipt.Receipt
}

// Applier represents the behavior required of the external state/execution
// engine. The processor treats Apply as opaque and deterministic; it charges
// the returned gas against the block budget and routes the emitted receipts.
type Applier interface {
	Apply(shard receipt.ShardID, round uint64, item Item) Applied
}

// =============================================================================

// Config represents the dependencies a processor needs for one shard.
type Config struct {
	Shard     receipt.ShardID
	Meter     *gas.Meter
	Incoming  *queue.Incoming
	Outgoing  *buffer.Set
	Outbox    *buffer.Outbox
	Pool      *admit.Pool
	Applier   Applier
	EvHandler EventHandler
}

// Processor runs the per-block algorithm for one shard.
type Processor struct {
	shard     receipt.ShardID
	meter     *gas.Meter
	incoming  *queue.Incoming
	outgoing  *buffer.Set
	outbox    *buffer.Outbox
	pool      *admit.Pool
	applier   Applier
	evHandler EventHandler
	status    Status
}

// New constructs a processor for one shard.
func New(cfg Config) *Processor {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	return &Processor{
		shard:     cfg.Shard,
		meter:     cfg.Meter,
		incoming:  cfg.Incoming,
		outgoing:  cfg.Outgoing,
		outbox:    cfg.Outbox,
		pool:      cfg.Pool,
		applier:   cfg.Applier,
		evHandler: ev,
		status:    StatusIdle,
	}
}

// Status returns the processor's position in the per-block state machine.
func (p *Processor) Status() Status {
	return p.status
}

// =============================================================================

// Report summarizes what one shard did in one block. It feeds the block's
// receipt trace.
type Report struct {
	Shard            receipt.ShardID `json:"shard"`
	Round            uint64          `json:"round"`
	GasUsed          uint64          `json:"gas_used"`
	GasBudget        uint64          `json:"gas_budget"`
	Exhausted        bool            `json:"exhausted"`
	ReceiptsExecuted int             `json:"receipts_executed"`
	TxsExecuted      int             `json:"txs_executed"`
	ReceiptsEmitted  int             `json:"receipts_emitted"`
	DelayedReceipts  int             `json:"delayed_receipts"`
	DeferredTxs      int             `json:"deferred_txs"`
	OutboxRetried    int             `json:"outbox_retried"`
	OutboxPending    int             `json:"outbox_pending"`
}

// RunBlock executes the shard's work for the specified round and returns the
// block report. The round number is passed in explicitly; the processor keeps
// no ambient block state.
func (p *Processor) RunBlock(round uint64) Report {
	p.evHandler("processor: %s: round %d: started", p.shard, round)
	defer p.evHandler("processor: %s: round %d: completed", p.shard, round)

	p.meter.Reset()

	rep := Report{
		Shard:     p.shard,
		Round:     round,
		GasBudget: p.meter.Budget(),
	}

	// Retry receipts that failed to enqueue in earlier blocks before any new
	// work runs, so retried receipts keep their place ahead of new emissions
	// toward the same destination.
	rep.OutboxRetried = p.outbox.Flush(p.outgoing)

	p.status = StatusConsumingIncoming
	exhausted := p.consumeIncoming(round, &rep)

	if !exhausted {
		p.status = StatusConsumingLocal
		exhausted = p.consumeLocal(round, &rep)
	}

	if exhausted {
		p.status = StatusExhausted
	} else {
		p.status = StatusDrained
	}

	rep.GasUsed = p.meter.Used()
	rep.Exhausted = p.meter.Exhausted()
	rep.DelayedReceipts = p.incoming.Len()
	rep.DeferredTxs = p.pool.Count()
	rep.OutboxPending = p.outbox.Len()

	p.status = StatusBlockClosed

	return rep
}

// consumeIncoming executes queued incoming receipts oldest first. It reports
// true when the gas budget ran out; the unexecuted remainder stays queued in
// order for the next block.
func (p *Processor) consumeIncoming(round uint64, rep *Report) bool {
	for {
		r, ok := p.incoming.Peek()
		if !ok {
			return false
		}

		item := Item{Kind: KindReceipt, Receipt: r}
		if !p.execute(round, item, rep) {
			return true
		}

		p.incoming.Remove()
		rep.ReceiptsExecuted++
	}
}

// consumeLocal executes admitted local transactions in submission order. It
// reports true when the gas budget ran out; the unexecuted remainder stays
// pooled in order for the next block.
func (p *Processor) consumeLocal(round uint64, rep *Report) bool {
	for {
		tx, ok := p.pool.Peek()
		if !ok {
			return false
		}

		item := Item{Kind: KindTx, Tx: tx}
		if !p.execute(round, item, rep) {
			return true
		}

		p.pool.Remove()
		rep.TxsExecuted++
	}
}

// execute runs one work item through the applier and charges its gas. Gas is
// charged before the item is removed from its queue, so a partially-applied
// item is never committed. It reports false on gas exhaustion.
func (p *Processor) execute(round uint64, item Item, rep *Report) bool {
	applied := p.applier.Apply(p.shard, round, item)

	if err := p.meter.Consume(applied.GasUsed); err != nil {
		p.evHandler("processor: %s: round %d: item[%s]: %s: deferring remainder", p.shard, round, item.ID(), err)
		return false
	}

	if !applied.OK {
		p.evHandler("processor: %s: round %d: item[%s]: execution failed", p.shard, round, item.ID())
		return true
	}

	for _, r := range applied.Emitted {
		p.emit(r, rep)
	}

	return true
}

// emit places one produced receipt into the outgoing buffer for its
// destination. A receipt that does not fit, or that would overtake an
// earlier receipt already waiting in the outbox for the same destination,
// goes to the outbox for retry in a later block.
func (p *Processor) emit(r receipt.Receipt, rep *Report) {
	rep.ReceiptsEmitted++

	if p.outbox.Holds(r.Dest) {
		p.outbox.Add(r)
		return
	}

	// Admission validation rejects hop paths that loop back on their
	// executing shard, but the applier is external code, so a receipt with
	// no carrying buffer is surfaced rather than allowed to panic.
	buf := p.outgoing.Buffer(r.Dest)
	if buf == nil {
		p.evHandler("processor: %s: receipt[%s]: no outgoing buffer for %s", p.shard, r.ID, r.Dest)
		return
	}

	err := buf.Enqueue(r)
	switch {
	case err == nil:
		return

	case errors.Is(err, buffer.ErrFull):
		p.evHandler("processor: %s: receipt[%s] to %s: buffer full: queued for retry", p.shard, r.ID, r.Dest)
		p.outbox.Add(r)

	default:
		p.evHandler("processor: %s: receipt[%s] to %s: ERROR: %s", p.shard, r.ID, r.Dest, err)
	}
}
