// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	v1 "github.com/shardcraft/ledger/business/web/v1"
	"github.com/shardcraft/ledger/foundation/events"
	"github.com/shardcraft/ledger/foundation/sharding/admit"
	"github.com/shardcraft/ledger/foundation/sharding/mesh"
	"github.com/shardcraft/ledger/foundation/sharding/receipt"
	"github.com/shardcraft/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Mesh *mesh.Mesh
	WS   websocket.Upgrader
	Evts *events.Events
}

// Events handles a web socket to provide block-round events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction gates a new transaction into the originating shard's
// pool. A transaction bound for a congested destination is rejected with an
// actionable reason so the submitter can retry later or reroute.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx receipt.Tx
	if err := web.Decode(r, &tx); err != nil {
		return err
	}

	h.Log.Infow("submit tx", "traceid", v.TraceID, "from", tx.From, "origin", tx.Origin, "dest", tx.Dest, "gas", tx.Gas)

	if err := h.Mesh.SubmitTransaction(tx); err != nil {
		if errors.Is(err, admit.ErrDestinationCongested) {
			return v1.NewRequestError(err, http.StatusTooManyRequests)
		}
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := submitResult{
		Status: "transaction accepted",
		TxID:   tx.Hash(),
		Origin: int(tx.Origin),
		Dest:   int(tx.Dest),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.Mesh.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Congestion returns the admission state of every shard pair.
func (h Handlers) Congestion(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := h.Mesh.QueryCongestion()
	return web.Respond(ctx, w, status, http.StatusOK)
}

// Buffers returns the backlog of every outgoing buffer.
func (h Handlers) Buffers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fills := h.Mesh.QueryBufferFills()
	return web.Respond(ctx, w, fills, http.StatusOK)
}

// Shards returns every shard's standing queues.
func (h Handlers) Shards(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := h.Mesh.QueryShardStatus()
	return web.Respond(ctx, w, status, http.StatusOK)
}

// LatestTrace returns the receipt trace of the last closed block.
func (h Handlers) LatestTrace(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trace, ok := h.Mesh.QueryLatestTrace()
	if !ok {
		return v1.NewRequestError(errors.New("no block closed yet"), http.StatusNotFound)
	}

	return web.Respond(ctx, w, trace, http.StatusOK)
}

// TraceByRound returns the receipt trace of the specified round.
func (h Handlers) TraceByRound(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	round, err := strconv.ParseUint(web.Param(r, "round"), 10, 64)
	if err != nil {
		return v1.NewRequestError(errors.New("round must be a number"), http.StatusBadRequest)
	}

	trace, ok := h.Mesh.QueryTrace(round)
	if !ok {
		return v1.NewRequestError(errors.New("round not in retained history"), http.StatusNotFound)
	}

	return web.Respond(ctx, w, trace, http.StatusOK)
}
