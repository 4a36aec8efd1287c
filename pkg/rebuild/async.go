package rebuild

import (
	"context"
	"sync"

	"github.com/chazu/meshkernel/pkg/mesh"
)

// Dispatcher serializes Rebuild calls against a single mesh from
// background callers, discarding stale results the way
// chazu-lignin/pkg/engine.Engine's generation counter discards a
// superseded Evaluate: each RebuildAsync call bumps generation before
// starting, and a caller that waited past a newer call's start is told
// its result was superseded rather than handed stale data.
type Dispatcher struct {
	mu         sync.Mutex
	generation uint64
	// running is held while a dispatched Rebuild runs, so two dispatched
	// rebuilds never run at once.
	running sync.Mutex
}

// NewDispatcher returns a ready Dispatcher.
func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// RebuildAsync runs Rebuild on a goroutine and returns channels for its
// result; ctx cancellation (or a later RebuildAsync call superseding
// this one) delivers an error instead of a Model.
func (d *Dispatcher) RebuildAsync(ctx context.Context, m *mesh.Mesh, xf mesh.Transform, renderSink mesh.IRenderMesh, collisionSink mesh.ICollisionSink) (<-chan *Model, <-chan error) {
	modelCh := make(chan *Model, 1)
	errCh := make(chan error, 1)

	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.mu.Unlock()

	resultCh := make(chan rebuildResult, 1)
	go func() {
		d.running.Lock()
		defer d.running.Unlock()
		defer func() {
			if r := recover(); r != nil {
				resultCh <- rebuildResult{err: recoveredPanicError(r)}
			}
		}()
		model, err := Rebuild(m, xf, renderSink, collisionSink)
		resultCh <- rebuildResult{model: model, err: err}
	}()

	go func() {
		select {
		case res := <-resultCh:
			d.mu.Lock()
			current := d.generation
			d.mu.Unlock()
			if gen != current {
				errCh <- mesh.NewError(mesh.Empty, "rebuild_async: superseded by a newer rebuild before completion")
				return
			}
			if res.err != nil {
				errCh <- res.err
				return
			}
			modelCh <- res.model
		case <-ctx.Done():
			errCh <- ctx.Err()
		}
	}()

	return modelCh, errCh
}

type rebuildResult struct {
	model *Model
	err   error
}

func recoveredPanicError(r any) error {
	return mesh.NewError(mesh.Degenerate, "rebuild_async: panic during rebuild: %v", r)
}
