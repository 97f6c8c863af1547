package genesis_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shardcraft/ledger/foundation/sharding/genesis"
	"github.com/shardcraft/ledger/foundation/sharding/queue"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const document = `{
  "chain_id": 1,
  "shards": 4,
  "gas_budget": 1000,
  "buffer_capacity": 1000,
  "high_watermark": 0.9,
  "low_watermark": 0.5,
  "incoming_queue_capacity": 1000,
  "router_gas_cap": 1000
}`

func TestLoad(t *testing.T) {
	t.Log("Given the need to load the genesis file.")
	{
		t.Logf("\tTest 0:\tWhen loading a well formed document.")
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(document), 0644); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to write the file: %v", failed, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the file: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to load the file.", success)

			if gen.Shards != 4 || gen.GasBudget != 1000 {
				t.Fatalf("\t%s\tTest 0:\tShould decode the parameters: shards %d budget %d.", failed, gen.Shards, gen.GasBudget)
			}
			t.Logf("\t%s\tTest 0:\tShould decode the parameters.", success)

			if set := gen.ShardSet(); len(set) != 4 || set[0] != 0 || set[3] != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould produce the fixed shard set.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce the fixed shard set.", success)
		}
	}
}

func TestValidate(t *testing.T) {
	base := genesis.Genesis{
		ChainID:               1,
		Shards:                4,
		GasBudget:             1000,
		BufferCapacity:        1000,
		HighWatermark:         0.9,
		LowWatermark:          0.5,
		IncomingQueueCapacity: 1000,
		RouterGasCap:          1000,
	}

	t.Log("Given the need to reject configurations that break backpressure.")
	{
		t.Logf("\tTest 0:\tWhen the incoming queue capacity is zero.")
		{
			gen := base
			gen.IncomingQueueCapacity = 0

			err := gen.Validate()
			if !errors.Is(err, queue.ErrCapacityMisconfigured) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrCapacityMisconfigured: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrCapacityMisconfigured.", success)
		}

		t.Logf("\tTest 1:\tWhen the watermarks are inverted.")
		{
			gen := base
			gen.LowWatermark = 0.95

			if err := gen.Validate(); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject the configuration.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the configuration.", success)
		}

		t.Logf("\tTest 2:\tWhen the shard set cannot exchange receipts.")
		{
			gen := base
			gen.Shards = 1

			if err := gen.Validate(); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject the configuration.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the configuration.", success)
		}

		t.Logf("\tTest 3:\tWhen the document is well formed.")
		{
			if err := base.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould accept the configuration: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould accept the configuration.", success)
		}
	}
}

func TestMaxTxGas(t *testing.T) {
	gen := genesis.Genesis{
		ChainID:               1,
		Shards:                4,
		GasBudget:             1000,
		BufferCapacity:        500,
		HighWatermark:         0.9,
		LowWatermark:          0.5,
		IncomingQueueCapacity: 100,
		RouterGasCap:          1000,
	}

	t.Log("Given the need to bound per item gas by the narrowest lane.")
	{
		t.Logf("\tTest 0:\tWhen the incoming queue is the tightest capacity.")
		{
			if got := gen.MaxTxGas(); got != 100 {
				t.Fatalf("\t%s\tTest 0:\tShould get ceiling 100: got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould get ceiling 100.", success)
		}
	}
}
