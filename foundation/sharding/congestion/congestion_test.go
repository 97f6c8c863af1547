package congestion_test

import (
	"testing"

	"github.com/shardcraft/ledger/foundation/sharding/congestion"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestHysteresis(t *testing.T) {
	t.Log("Given the need to block admission without flapping near one threshold.")
	{
		t.Logf("\tTest 0:\tWhen fill moves 0.95 -> 0.60 -> 0.45 with watermarks 0.9/0.5.")
		{
			ctrl, err := congestion.New(0.9, 0.5)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the controller: %v", failed, err)
			}

			if adm := ctrl.Evaluate(0, 1, 0.95); adm != congestion.Blocked {
				t.Fatalf("\t%s\tTest 0:\tShould block at fill 0.95: got %s.", failed, adm)
			}
			t.Logf("\t%s\tTest 0:\tShould block at fill 0.95.", success)

			if adm := ctrl.Evaluate(0, 1, 0.60); adm != congestion.Blocked {
				t.Fatalf("\t%s\tTest 0:\tShould stay blocked at fill 0.60: got %s.", failed, adm)
			}
			t.Logf("\t%s\tTest 0:\tShould stay blocked at fill 0.60.", success)

			// A brief dip just under the high watermark must not unblock.
			if adm := ctrl.Evaluate(0, 1, 0.89); adm != congestion.Blocked {
				t.Fatalf("\t%s\tTest 0:\tShould stay blocked at fill 0.89: got %s.", failed, adm)
			}
			t.Logf("\t%s\tTest 0:\tShould stay blocked at fill 0.89.", success)

			if adm := ctrl.Evaluate(0, 1, 0.45); adm != congestion.Allowed {
				t.Fatalf("\t%s\tTest 0:\tShould allow at fill 0.45: got %s.", failed, adm)
			}
			t.Logf("\t%s\tTest 0:\tShould allow at fill 0.45.", success)
		}

		t.Logf("\tTest 1:\tWhen pairs are independent.")
		{
			ctrl, _ := congestion.New(0.9, 0.5)

			ctrl.Evaluate(0, 1, 1.0)
			ctrl.Evaluate(2, 1, 0.1)

			if adm := ctrl.Admission(0, 1); adm != congestion.Blocked {
				t.Fatalf("\t%s\tTest 1:\tShould block the saturated pair: got %s.", failed, adm)
			}
			t.Logf("\t%s\tTest 1:\tShould block the saturated pair.", success)

			if adm := ctrl.Admission(2, 1); adm != congestion.Allowed {
				t.Fatalf("\t%s\tTest 1:\tShould leave the idle pair alone: got %s.", failed, adm)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the idle pair alone.", success)
		}
	}
}

func TestGasSaturationSignal(t *testing.T) {
	t.Log("Given the need to track compute saturation apart from buffer fill.")
	{
		t.Logf("\tTest 0:\tWhen a shard runs its block out of gas.")
		{
			ctrl, _ := congestion.New(0.9, 0.5)

			ctrl.RecordGasUse(3, true)
			ctrl.Evaluate(3, 1, 0.0)

			if !ctrl.GasSaturated(3) {
				t.Fatalf("\t%s\tTest 0:\tShould report the shard as gas saturated.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the shard as gas saturated.", success)

			if adm := ctrl.Admission(3, 1); adm != congestion.Allowed {
				t.Fatalf("\t%s\tTest 0:\tShould not block admission on gas saturation alone: got %s.", failed, adm)
			}
			t.Logf("\t%s\tTest 0:\tShould not block admission on gas saturation alone.", success)

			ctrl.RecordGasUse(3, false)
			if ctrl.GasSaturated(3) {
				t.Fatalf("\t%s\tTest 0:\tShould clear the signal on a drained block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould clear the signal on a drained block.", success)
		}
	}
}

func TestWatermarkValidation(t *testing.T) {
	t.Log("Given the need to reject a broken hysteresis band.")
	{
		tt := []struct {
			name string
			high float64
			low  float64
		}{
			{"low above high", 0.5, 0.9},
			{"low equals high", 0.9, 0.9},
			{"high above one", 1.5, 0.5},
			{"zero low", 0.9, 0},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen constructing with %s.", testID, tst.name)
			{
				if _, err := congestion.New(tst.high, tst.low); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject the configuration.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the configuration.", success, testID)
			}
		}
	}
}
