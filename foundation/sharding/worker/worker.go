// Package worker implements the block-round schedule for the mesh. It drives
// one round at a time on a ticker, with a signal channel for manually
// triggered rounds and a pause switch for operations.
package worker

import (
	"sync"
	"time"

	"github.com/shardcraft/ledger/foundation/sharding/mesh"
)

// Worker manages the lockstep round schedule for the mesh.
type Worker struct {
	mesh       *mesh.Mesh
	wg         sync.WaitGroup
	ticker     *time.Ticker
	shut       chan struct{}
	startRound chan bool
	evHandler  mesh.EventHandler
	paused     bool
	mu         sync.Mutex
}

// Run creates a worker, registers the worker with the mesh, and starts up
// the background round production.
func Run(m *mesh.Mesh, interval time.Duration, evHandler mesh.EventHandler) {
	w := Worker{
		mesh:       m,
		ticker:     time.NewTicker(interval),
		shut:       make(chan struct{}),
		startRound: make(chan bool, 1),
		evHandler:  evHandler,
	}

	// Register this worker with the mesh.
	m.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.roundOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the mesh.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.ticker.Stop()

	close(w.shut)
	w.wg.Wait()
}

// SignalRound triggers a round outside the ticker schedule. If a signal is
// already pending, a round is coming anyway and the call is a no-op.
func (w *Worker) SignalRound() {
	select {
	case w.startRound <- true:
		w.evHandler("worker: SignalRound: round signaled")
	default:
	}
}

// Pause stops producing rounds until Resume is called. Submissions still
// queue; they simply wait for the schedule to come back.
func (w *Worker) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.paused = true
	w.evHandler("worker: paused")
}

// Resume restarts round production after a Pause.
func (w *Worker) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.paused = false
	w.evHandler("worker: resumed")
}

// Paused reports whether round production is currently stopped.
func (w *Worker) Paused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.paused
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// roundOperations drives block rounds from the ticker and the manual signal.
func (w *Worker) roundOperations() {
	w.evHandler("worker: roundOperations: G started")
	defer w.evHandler("worker: roundOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runRound()
			}
		case <-w.startRound:
			if !w.isShutdown() {
				w.runRound()
			}
		case <-w.shut:
			w.evHandler("worker: roundOperations: received shut signal")
			return
		}
	}
}

// runRound executes one block round unless production is paused.
func (w *Worker) runRound() {
	if w.Paused() {
		w.evHandler("worker: runRound: production paused")
		return
	}

	if _, err := w.mesh.RunRound(); err != nil {
		w.evHandler("worker: runRound: ERROR: %s", err)
	}
}
