package listing

import (
	"context"
	"slices"
	"sync"

	"github.com/whereisit-project/whereisit/internal/domain"
)

// RecoveredView lists the recovery records of the signed-in user.
type RecoveredView struct {
	deps Deps

	mu     sync.Mutex
	runner *Runner
	items  []domain.RecoveryRecord
	state  LoadState
	err    error
}

// NewRecoveredView creates an unmounted view.
func NewRecoveredView(deps Deps) *RecoveredView {
	return &RecoveredView{deps: deps.withDefaults(), runner: &Runner{}}
}

// Load fetches the records.
func (v *RecoveredView) Load(ctx context.Context) error {
	id, err := v.deps.identity()
	if err != nil {
		report(ctx, v.deps.Logger, v.deps.Notifier, "recovered", err, MsgLoadRecoveredFailed)
		return err
	}

	v.mu.Lock()
	if v.runner.Closed() {
		v.runner = &Runner{}
	}
	runner := v.runner
	v.state = StateLoading
	v.mu.Unlock()

	err = Run(ctx, runner,
		func(ctx context.Context) ([]domain.RecoveryRecord, error) {
			return v.deps.API.RecoveredItems(ctx, id.Email)
		},
		func(items []domain.RecoveryRecord, err error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if err != nil {
				v.state, v.err = StateError, err
				return
			}
			v.items = slices.Clone(items)
			v.state, v.err = StateReady, nil
		},
	)
	if err != nil {
		report(ctx, v.deps.Logger, v.deps.Notifier, "recovered", err, MsgLoadRecoveredFailed)
	}
	return err
}

// Items returns the loaded records.
func (v *RecoveredView) Items() []domain.RecoveryRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.items)
}

// State reports the load state and the last error.
func (v *RecoveredView) State() (LoadState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.err
}

// Unmount discards any request in flight and the loaded records.
func (v *RecoveredView) Unmount() {
	v.mu.Lock()
	runner := v.runner
	v.mu.Unlock()
	runner.Close()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.items, v.state, v.err = nil, StateIdle, nil
}
