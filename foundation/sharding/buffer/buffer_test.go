package buffer_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shardcraft/ledger/foundation/sharding/buffer"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newReceipt(id string, source receipt.ShardID, dest receipt.ShardID, gas uint64) receipt.Receipt {
	return receipt.New(id, 0, source, dest, gas, nil, nil)
}

func TestEnqueueCapacity(t *testing.T) {
	t.Log("Given the need to bound an outgoing buffer by its gas capacity.")
	{
		t.Logf("\tTest 0:\tWhen enqueueing receipts costing 300 and 250 into a buffer of capacity 510.")
		{
			buf := buffer.NewOutgoing(0, 1, 510)

			first := newReceipt("a", 0, 1, 300)
			second := newReceipt("b", 0, 1, 250)

			if err := buf.Enqueue(first); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to enqueue the first receipt: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to enqueue the first receipt.", success)

			if filled := buf.Filled(); filled != 300 {
				t.Fatalf("\t%s\tTest 0:\tShould show 300 gas filled: got %d.", failed, filled)
			}
			t.Logf("\t%s\tTest 0:\tShould show 300 gas filled.", success)

			err := buf.Enqueue(second)
			if !errors.Is(err, buffer.ErrFull) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrFull for the second receipt: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrFull for the second receipt.", success)

			if drained := buf.DrainUpTo(300); len(drained) != 1 || drained[0].ID != first.ID {
				t.Fatalf("\t%s\tTest 0:\tShould drain exactly the first receipt.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould drain exactly the first receipt.", success)

			if err := buf.Enqueue(second); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to retry the second receipt after the drain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to retry the second receipt after the drain.", success)
		}

		t.Logf("\tTest 1:\tWhen a receipt's gas cost is large enough to wrap the arithmetic.")
		{
			buf := buffer.NewOutgoing(0, 1, 510)
			buf.Enqueue(newReceipt("a", 0, 1, 300))

			err := buf.Enqueue(newReceipt("huge", 0, 1, math.MaxUint64))
			if !errors.Is(err, buffer.ErrFull) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrFull for the oversized receipt: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrFull for the oversized receipt.", success)

			if filled := buf.Filled(); filled != 300 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the fill untouched: got %d.", failed, filled)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the fill untouched.", success)
		}
	}
}

func TestDrainWholeReceipts(t *testing.T) {
	t.Log("Given the need to drain receipts head first without splitting any.")
	{
		t.Logf("\tTest 0:\tWhen draining with an allowance smaller than the head receipt.")
		{
			buf := buffer.NewOutgoing(0, 1, 1000)
			buf.Enqueue(newReceipt("a", 0, 1, 300))
			buf.Enqueue(newReceipt("b", 0, 1, 400))

			if drained := buf.DrainUpTo(200); len(drained) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould move zero receipts: got %d.", failed, len(drained))
			}
			t.Logf("\t%s\tTest 0:\tShould move zero receipts.", success)

			if filled := buf.Filled(); filled != 700 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the fill untouched: got %d.", failed, filled)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the fill untouched.", success)
		}

		t.Logf("\tTest 1:\tWhen draining with an allowance covering only the head.")
		{
			buf := buffer.NewOutgoing(0, 1, 1000)
			a := newReceipt("a", 0, 1, 300)
			b := newReceipt("b", 0, 1, 400)
			buf.Enqueue(a)
			buf.Enqueue(b)

			drained := buf.DrainUpTo(350)
			if len(drained) != 1 || drained[0].ID != a.ID {
				t.Fatalf("\t%s\tTest 1:\tShould drain only the head receipt.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould drain only the head receipt.", success)

			if ratio := buf.FillRatio(); ratio != 0.4 {
				t.Fatalf("\t%s\tTest 1:\tShould report a fill ratio of 0.4: got %.2f.", failed, ratio)
			}
			t.Logf("\t%s\tTest 1:\tShould report a fill ratio of 0.4.", success)
		}
	}
}

func TestRequeue(t *testing.T) {
	t.Log("Given the need to restore drained receipts after a bounced delivery.")
	{
		t.Logf("\tTest 0:\tWhen requeueing a drained batch.")
		{
			buf := buffer.NewOutgoing(0, 1, 1000)
			a := newReceipt("a", 0, 1, 100)
			b := newReceipt("b", 0, 1, 100)
			c := newReceipt("c", 0, 1, 100)
			buf.Enqueue(a)
			buf.Enqueue(b)
			buf.Enqueue(c)

			drained := buf.DrainUpTo(200)
			buf.Requeue(drained)

			got := buf.DrainUpTo(1000)
			if len(got) != 3 || got[0].ID != a.ID || got[1].ID != b.ID || got[2].ID != c.ID {
				t.Fatalf("\t%s\tTest 0:\tShould restore the original order.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould restore the original order.", success)
		}
	}
}

func TestOutboxFlush(t *testing.T) {
	t.Log("Given the need to retry receipts that found their buffer full.")
	{
		t.Logf("\tTest 0:\tWhen flushing an outbox holding receipts for a still-full destination.")
		{
			set := buffer.NewSet(0, []receipt.ShardID{0, 1, 2}, 500)

			// Saturate the buffer toward shard 1.
			if err := set.Buffer(1).Enqueue(newReceipt("x", 0, 1, 500)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to saturate the buffer: %v", failed, err)
			}

			var outbox buffer.Outbox
			blockedA := newReceipt("a", 0, 1, 100)
			blockedB := newReceipt("b", 0, 1, 50)
			free := newReceipt("c", 0, 2, 100)
			outbox.Add(blockedA)
			outbox.Add(blockedB)
			outbox.Add(free)

			placed := outbox.Flush(set)
			if placed != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould place only the receipt for the open destination: got %d.", failed, placed)
			}
			t.Logf("\t%s\tTest 0:\tShould place only the receipt for the open destination.", success)

			if outbox.Len() != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould keep both receipts for the full destination: got %d.", failed, outbox.Len())
			}
			t.Logf("\t%s\tTest 0:\tShould keep both receipts for the full destination.", success)

			// Drain the saturated buffer and flush again.
			set.Buffer(1).DrainUpTo(500)

			if placed := outbox.Flush(set); placed != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould place the remainder after the drain: got %d.", failed, placed)
			}
			t.Logf("\t%s\tTest 0:\tShould place the remainder after the drain.", success)

			drained := set.Buffer(1).DrainUpTo(1000)
			if len(drained) != 2 || drained[0].ID != blockedA.ID || drained[1].ID != blockedB.ID {
				t.Fatalf("\t%s\tTest 0:\tShould preserve emission order through the retry.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould preserve emission order through the retry.", success)
		}
	}
}
