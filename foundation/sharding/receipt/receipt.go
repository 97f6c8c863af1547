// Package receipt defines the units of work that move through the sharded
// ledger: externally submitted transactions and the cross-shard receipts
// their execution emits.
package receipt

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// ShardID uniquely identifies one shard in the fixed shard set.
type ShardID int

// String implements the fmt.Stringer interface.
func (id ShardID) String() string {
	return fmt.Sprintf("shard-%d", int(id))
}

// =============================================================================

// Tx represents an externally submitted unit of work. The origin shard is the
// shard that physically received the submission; the destination shard is the
// first hop the work is addressed to. The two may differ.
type Tx struct {
	From   string    `json:"from" validate:"required"`
	Origin ShardID   `json:"origin"`
	Dest   ShardID   `json:"dest"`
	Gas    uint64    `json:"gas" validate:"required,gt=0"`
	Hops   []ShardID `json:"hops,omitempty"`
	Data   []byte    `json:"data,omitempty"`
}

// Hash returns a unique identifier for the transaction derived from its
// content.
func (tx Tx) Hash() string {
	data, err := json.Marshal(tx)
	if err != nil {
		return zeroHash
	}

	return signatureHash(data)
}

// =============================================================================

// Receipt is the unit of cross-shard work produced by executing a transaction
// or another receipt. A receipt is owned by exactly one buffer or queue at a
// time and moves between them by transfer.
type Receipt struct {
	ID     string    `json:"id"`
	Source ShardID   `json:"source"`
	Dest   ShardID   `json:"dest"`
	Gas    uint64    `json:"gas"`
	Hops   []ShardID `json:"hops,omitempty"`
	Data   []byte    `json:"data,omitempty"`
}

// New constructs a receipt emitted at the given shard on behalf of the parent
// work item. The index distinguishes multiple receipts emitted by one item.
func New(parentID string, index int, source ShardID, dest ShardID, gas uint64, hops []ShardID, data []byte) Receipt {
	return Receipt{
		ID:     childHash(parentID, index),
		Source: source,
		Dest:   dest,
		Gas:    gas,
		Hops:   hops,
		Data:   data,
	}
}

// =============================================================================

const zeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// signatureHash returns the hex encoded keccak hash of the specified data.
func signatureHash(data []byte) string {
	return crypto.Keccak256Hash(data).Hex()
}

// childHash derives a receipt id from the id of the work item that emitted it.
func childHash(parentID string, index int) string {
	return signatureHash(fmt.Appendf(nil, "%s:%d", parentID, index))
}
