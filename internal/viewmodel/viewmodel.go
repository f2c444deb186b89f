// Package viewmodel holds the four independently loaded data sets behind
// the timeline page: encounters, medications in use, diagnoses and change
// events. Each section moves through Idle, Loading and then Loaded or Error
// on its own; a failure in one never touches the others.
package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/ehr/timeline/internal/domain/changes"
	"github.com/ehr/timeline/internal/domain/diagnosis"
	"github.com/ehr/timeline/internal/domain/medication"
	"github.com/ehr/timeline/internal/domain/timeline"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	}
	return "unknown"
}

// Section is one data set and its load state. While a reload is in flight
// State is Loading and Data still holds the last successful load.
type Section[T any] struct {
	State State
	Data  T
	Err   error

	// settled is the state of the last stored outcome; inflight counts the
	// loads not yet finished.
	settled  State
	inflight int
}

func (s Section[T]) Failed() bool { return s.State == Error }

// HasData reports whether Data holds a successful load, possibly one that
// is being refreshed.
func (s Section[T]) HasData() bool {
	return s.State == Loaded || (s.State == Loading && s.settled == Loaded)
}

// Services are the domain services the view model loads from.
type Services struct {
	Timeline    *timeline.Service
	Medications *medication.Service
	Diagnoses   *diagnosis.Service
	Changes     *changes.Service
}

type ViewModel struct {
	svc    Services
	logger zerolog.Logger

	mu          sync.RWMutex
	timeline    Section[*timeline.Timeline]
	medications Section[[]medication.Entry]
	diagnoses   Section[[]diagnosis.Entry]
	changes     Section[changes.Set]

	timerMu sync.Mutex
	timer   *time.Timer
	closed  bool
}

func New(svc Services, logger zerolog.Logger) *ViewModel {
	return &ViewModel{
		svc:    svc,
		logger: logger.With().Str("component", "viewmodel").Logger(),
	}
}

// load marks sec Loading, runs fetch without holding the lock and stores
// the outcome. On failure the section's data is cleared. A fetch that fails
// because ctx ended stores nothing: the section goes back to its last
// outcome once no other load is running.
func load[T any](ctx context.Context, vm *ViewModel, sec *Section[T], fetch func(context.Context) (T, error)) error {
	vm.mu.Lock()
	sec.State = Loading
	sec.inflight++
	vm.mu.Unlock()

	data, err := fetch(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	sec.inflight--
	if err != nil && ctx.Err() != nil {
		if sec.inflight == 0 {
			sec.State = sec.settled
		}
		return err
	}
	if err != nil {
		var zero T
		sec.State, sec.Data, sec.Err = Error, zero, err
	} else {
		sec.State, sec.Data, sec.Err = Loaded, data, nil
	}
	sec.settled = sec.State
	return err
}

func (vm *ViewModel) LoadTimeline(ctx context.Context) error {
	return load(ctx, vm, &vm.timeline, vm.svc.Timeline.Load)
}

func (vm *ViewModel) LoadMedications(ctx context.Context) error {
	return load(ctx, vm, &vm.medications, vm.svc.Medications.List)
}

func (vm *ViewModel) LoadDiagnoses(ctx context.Context) error {
	return load(ctx, vm, &vm.diagnoses, vm.svc.Diagnoses.List)
}

func (vm *ViewModel) LoadChanges(ctx context.Context) error {
	return load(ctx, vm, &vm.changes, vm.svc.Changes.Load)
}

// LoadAll reloads every section concurrently and waits for all of them.
// The returned error joins the individual section failures.
func (vm *ViewModel) LoadAll(ctx context.Context) error {
	p := pool.New().WithErrors()
	p.Go(func() error { return vm.LoadTimeline(ctx) })
	p.Go(func() error { return vm.LoadMedications(ctx) })
	p.Go(func() error { return vm.LoadDiagnoses(ctx) })
	p.Go(func() error { return vm.LoadChanges(ctx) })
	return p.Wait()
}

// SetMedicationRegularUse forwards the change to the records API and, only
// once it is acknowledged, updates the matching local entry.
func (vm *ViewModel) SetMedicationRegularUse(ctx context.Context, name string, regular bool) error {
	if err := vm.svc.Medications.SetRegularUse(ctx, name, regular); err != nil {
		return err
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.medications.State == Loaded {
		vm.medications.Data = medication.WithRegularUse(vm.medications.Data, name, regular)
	}
	return nil
}

func (vm *ViewModel) SetDiagnosisActive(ctx context.Context, name string, active bool) error {
	if err := vm.svc.Diagnoses.SetActive(ctx, name, active); err != nil {
		return err
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.diagnoses.State == Loaded {
		vm.diagnoses.Data = diagnosis.WithActive(vm.diagnoses.Data, name, active)
	}
	return nil
}

// AddMedication registers the medication and reloads the medications list
// from the records API.
func (vm *ViewModel) AddMedication(ctx context.Context, name string, regular bool) error {
	if err := vm.svc.Medications.Add(ctx, name, regular); err != nil {
		return err
	}
	return vm.LoadMedications(ctx)
}

// ScheduleReload reloads every section after delay. A pending reload is
// replaced by the new one.
func (vm *ViewModel) ScheduleReload(delay time.Duration) {
	vm.timerMu.Lock()
	defer vm.timerMu.Unlock()
	if vm.closed {
		return
	}
	if vm.timer != nil {
		vm.timer.Stop()
	}
	vm.timer = time.AfterFunc(delay, func() {
		if err := vm.LoadAll(context.Background()); err != nil {
			vm.logger.Warn().Err(err).Msg("scheduled reload incomplete")
			return
		}
		vm.logger.Debug().Msg("scheduled reload done")
	})
}

// Close cancels a pending scheduled reload.
func (vm *ViewModel) Close() {
	vm.timerMu.Lock()
	defer vm.timerMu.Unlock()
	vm.closed = true
	if vm.timer != nil {
		vm.timer.Stop()
		vm.timer = nil
	}
}

// Encounter looks up an encounter of the current timeline by filename. A
// timeline that was never loaded, or whose last load failed, is loaded
// first.
func (vm *ViewModel) Encounter(ctx context.Context, filename string) (timeline.EncounterRecord, bool) {
	vm.mu.RLock()
	state := vm.timeline.State
	vm.mu.RUnlock()
	if state == Idle || state == Error {
		_ = vm.LoadTimeline(ctx)
	}

	vm.mu.RLock()
	tl := vm.timeline.Data
	vm.mu.RUnlock()
	rec, _, ok := tl.Find(filename)
	return rec, ok
}
