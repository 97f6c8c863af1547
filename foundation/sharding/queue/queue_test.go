package queue_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shardcraft/ledger/foundation/sharding/queue"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestCapacityValidation(t *testing.T) {
	t.Log("Given the need to reject a queue capacity that breaks backpressure.")
	{
		t.Logf("\tTest 0:\tWhen constructing a queue with zero capacity.")
		{
			if _, err := queue.New(0); !errors.Is(err, queue.ErrCapacityMisconfigured) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrCapacityMisconfigured: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrCapacityMisconfigured.", success)
		}
	}
}

func TestBoundedAppend(t *testing.T) {
	t.Log("Given the need to keep the incoming queue within its capacity.")
	{
		t.Logf("\tTest 0:\tWhen appending deliveries against a capacity of 200.")
		{
			q, err := queue.New(200)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the queue: %v", failed, err)
			}

			a := receipt.New("a", 0, 0, 1, 150, nil, nil)
			if err := q.Append([]receipt.Receipt{a}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a delivery that fits: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a delivery that fits.", success)

			if room := q.Room(); room != 50 {
				t.Fatalf("\t%s\tTest 0:\tShould report 50 gas of room: got %d.", failed, room)
			}
			t.Logf("\t%s\tTest 0:\tShould report 50 gas of room.", success)

			b := receipt.New("b", 0, 0, 1, 100, nil, nil)
			if err := q.Append([]receipt.Receipt{b}); !errors.Is(err, queue.ErrNoRoom) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a delivery past capacity: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a delivery past capacity.", success)

			huge := receipt.New("huge", 0, 0, 1, math.MaxUint64, nil, nil)
			if err := q.Append([]receipt.Receipt{huge}); !errors.Is(err, queue.ErrNoRoom) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a delivery that would wrap the arithmetic: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a delivery that would wrap the arithmetic.", success)

			if filled := q.Filled(); filled != 150 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the fill untouched: got %d.", failed, filled)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the fill untouched.", success)
		}

		t.Logf("\tTest 1:\tWhen consuming with peek and remove.")
		{
			q, _ := queue.New(1000)
			a := receipt.New("a", 0, 0, 1, 100, nil, nil)
			b := receipt.New("b", 0, 0, 1, 200, nil, nil)
			q.Append([]receipt.Receipt{a, b})

			head, ok := q.Peek()
			if !ok || head.ID != a.ID {
				t.Fatalf("\t%s\tTest 1:\tShould peek the oldest receipt first.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould peek the oldest receipt first.", success)

			q.Remove()

			if filled := q.Filled(); filled != 200 {
				t.Fatalf("\t%s\tTest 1:\tShould release the removed receipt's gas: got %d.", failed, filled)
			}
			t.Logf("\t%s\tTest 1:\tShould release the removed receipt's gas.", success)

			head, ok = q.Peek()
			if !ok || head.ID != b.ID {
				t.Fatalf("\t%s\tTest 1:\tShould peek the next receipt in order.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould peek the next receipt in order.", success)
		}
	}
}
