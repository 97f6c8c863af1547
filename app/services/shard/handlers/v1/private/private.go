// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"net/http"

	"github.com/shardcraft/ledger/foundation/sharding/mesh"
	"github.com/shardcraft/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of private node endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Mesh *mesh.Mesh
}

// Status returns the node's round and schedule state.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Round  uint64 `json:"round"`
		Paused bool   `json:"paused"`
	}{
		Round:  h.Mesh.QueryRound(),
		Paused: h.Mesh.Worker.Paused(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RunRound triggers a block round outside the ticker schedule.
func (h Handlers) RunRound(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Mesh.Worker.SignalRound()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "round signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pause stops round production.
func (h Handlers) Pause(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Mesh.Worker.Pause()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "round production paused",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Resume restarts round production.
func (h Handlers) Resume(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Mesh.Worker.Resume()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "round production resumed",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
