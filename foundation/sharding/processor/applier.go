package processor

import "github.com/shardcraft/ledger/foundation/sharding/receipt"

// HopApplier is the default execution engine. It charges the work item's
// declared gas cost and forwards the item along the hop path described in its
// payload: a transaction whose destination is another shard emits one receipt
// toward it, and a receipt with remaining hops emits one receipt toward the
// next hop. Real execution engines replace this through the Applier
// interface.
type HopApplier struct{}

// Apply implements the Applier interface.
func (HopApplier) Apply(shard receipt.ShardID, round uint64, item Item) Applied {
	switch item.Kind {
	case KindTx:
		return applyTx(shard, item.Tx)

	default:
		return applyReceipt(shard, item.Receipt)
	}
}

func applyTx(shard receipt.ShardID, tx receipt.Tx) Applied {
	applied := Applied{
		OK:      true,
		GasUsed: tx.Gas,
	}

	switch {
	case tx.Dest != shard:
		r := receipt.New(tx.Hash(), 0, shard, tx.Dest, tx.Gas, tx.Hops, tx.Data)
		applied.Emitted = append(applied.Emitted, r)

	case len(tx.Hops) > 0:
		r := receipt.New(tx.Hash(), 0, shard, tx.Hops[0], tx.Gas, tx.Hops[1:], tx.Data)
		applied.Emitted = append(applied.Emitted, r)
	}

	return applied
}

func applyReceipt(shard receipt.ShardID, r receipt.Receipt) Applied {
	applied := Applied{
		OK:      true,
		GasUsed: r.Gas,
	}

	if len(r.Hops) > 0 {
		next := receipt.New(r.ID, 0, shard, r.Hops[0], r.Gas, r.Hops[1:], r.Data)
		applied.Emitted = append(applied.Emitted, next)
	}

	return applied
}
