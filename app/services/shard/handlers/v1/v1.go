// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/shardcraft/ledger/app/services/shard/handlers/v1/private"
	"github.com/shardcraft/ledger/app/services/shard/handlers/v1/public"
	"github.com/shardcraft/ledger/foundation/events"
	"github.com/shardcraft/ledger/foundation/sharding/mesh"
	"github.com/shardcraft/ledger/foundation/web"
	"go.uber.org/zap"
)

// Const for the routes.
const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log  *zap.SugaredLogger
	Mesh *mesh.Mesh
	Evts *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:  cfg.Log,
		Mesh: cfg.Mesh,
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/congestion", pbl.Congestion)
	app.Handle(http.MethodGet, version, "/buffers", pbl.Buffers)
	app.Handle(http.MethodGet, version, "/shards", pbl.Shards)
	app.Handle(http.MethodGet, version, "/trace/latest", pbl.LatestTrace)
	app.Handle(http.MethodGet, version, "/trace/:round", pbl.TraceByRound)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:  cfg.Log,
		Mesh: cfg.Mesh,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodPost, version, "/node/round", prv.RunRound)
	app.Handle(http.MethodPost, version, "/node/pause", prv.Pause)
	app.Handle(http.MethodPost, version, "/node/resume", prv.Resume)
}
