package admit_test

import (
	"errors"
	"testing"

	"github.com/shardcraft/ledger/foundation/sharding/admit"
	"github.com/shardcraft/ledger/foundation/sharding/congestion"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSubmit(t *testing.T) {
	t.Log("Given the need to gate transactions on destination congestion.")
	{
		t.Logf("\tTest 0:\tWhen the destination pair is blocked.")
		{
			ctrl, err := congestion.New(0.9, 0.5)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the controller: %v", failed, err)
			}

			pool := admit.NewPool()
			adm := admit.NewAdmitter(0, 1000, ctrl, pool)

			ctrl.Evaluate(0, 1, 1.0)

			tx := receipt.Tx{From: "alice", Origin: 0, Dest: 1, Gas: 10}
			err = adm.Submit(tx)
			if !errors.Is(err, admit.ErrDestinationCongested) {
				t.Fatalf("\t%s\tTest 0:\tShould reject with ErrDestinationCongested: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject with ErrDestinationCongested.", success)

			if pool.Count() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the pool empty on rejection.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the pool empty on rejection.", success)
		}

		t.Logf("\tTest 1:\tWhen the destination pair is open.")
		{
			ctrl, _ := congestion.New(0.9, 0.5)
			pool := admit.NewPool()
			adm := admit.NewAdmitter(0, 1000, ctrl, pool)

			txs := []receipt.Tx{
				{From: "alice", Origin: 0, Dest: 1, Gas: 10},
				{From: "bob", Origin: 0, Dest: 2, Gas: 20},
				{From: "carol", Origin: 0, Dest: 1, Gas: 30},
			}
			for _, tx := range txs {
				if err := adm.Submit(tx); err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould accept tx from %s: %v", failed, tx.From, err)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould accept every transaction.", success)

			got := pool.Copy()
			for i, tx := range got {
				if tx.From != txs[i].From {
					t.Fatalf("\t%s\tTest 1:\tShould keep submission order: got %s at %d.", failed, tx.From, i)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould keep submission order.", success)
		}

		t.Logf("\tTest 2:\tWhen a local transaction targets its own shard during congestion.")
		{
			ctrl, _ := congestion.New(0.9, 0.5)
			pool := admit.NewPool()
			adm := admit.NewAdmitter(0, 1000, ctrl, pool)

			ctrl.Evaluate(0, 1, 1.0)

			tx := receipt.Tx{From: "alice", Origin: 0, Dest: 0, Gas: 10}
			if err := adm.Submit(tx); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept a local transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould accept a local transaction.", success)
		}

		t.Logf("\tTest 3:\tWhen a transaction declares more gas than a block can carry.")
		{
			ctrl, _ := congestion.New(0.9, 0.5)
			pool := admit.NewPool()
			adm := admit.NewAdmitter(0, 1000, ctrl, pool)

			tx := receipt.Tx{From: "alice", Origin: 0, Dest: 1, Gas: 2000}
			err := adm.Submit(tx)
			if !errors.Is(err, admit.ErrGasOverBudget) {
				t.Fatalf("\t%s\tTest 3:\tShould reject with ErrGasOverBudget: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould reject with ErrGasOverBudget.", success)

			if pool.Count() != 0 {
				t.Fatalf("\t%s\tTest 3:\tShould leave the pool empty on rejection.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould leave the pool empty on rejection.", success)
		}
	}
}
