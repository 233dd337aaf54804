package efield

import (
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"
)

// ChangeReason describes the mutation behind a Change.
type ChangeReason uint8

const (
	// ChangeAdded means a charge was appended.
	ChangeAdded ChangeReason = iota + 1
	// ChangeRemoved means the last charge moved to the removed stack.
	ChangeRemoved
	// ChangeRestored means the last removed charge was re-added.
	ChangeRestored
	// ChangeRemovedAll means every active charge was removed.
	ChangeRemovedAll
	// ChangeReaddedAll means every removed charge was re-added.
	ChangeReaddedAll
	// ChangeEdited means a charge's parameters changed.
	ChangeEdited
)

// String returns the reason name.
func (r ChangeReason) String() string {
	switch r {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeRestored:
		return "restored"
	case ChangeRemovedAll:
		return "removed all"
	case ChangeReaddedAll:
		return "re-added all"
	case ChangeEdited:
		return "edited"
	default:
		return "unknown"
	}
}

// Change is delivered to OnChange listeners after every mutation.
type Change struct {
	Reason   ChangeReason
	Revision uint64
}

// Field is anything that can be sampled for its electric field.
type Field interface {
	ElectricFieldX(p Point) float64
	ElectricFieldY(p Point) float64
	NetElectricField(p Point) float64
}

type entry struct {
	id     uuid.UUID
	charge Charge
}

type listener struct {
	id uint64
	fn func(Change)
}

// Window owns an ordered collection of charges and sums their fields.
//
// Removed charges go onto a stack so that removals can be undone in
// last-removed-first-restored order. A charge is either active or removed,
// never both.
//
// The Window stores its own copies of the charges it is given; the only way
// to mutate a stored charge is Edit. Every mutation bumps Revision and
// notifies OnChange listeners exactly once.
//
// Window is safe for concurrent use.
type Window struct {
	mu       sync.RWMutex
	active   []entry
	removed  []entry
	revision uint64

	listenMu  sync.Mutex
	listeners []listener
	nextID    uint64
}

// NewWindow creates a window holding charges in order.
func NewWindow(charges ...Charge) (*Window, error) {
	w := &Window{}
	for _, c := range charges {
		if _, err := w.AddCharge(c); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// OnChange registers fn to be called after every mutation. Listeners run on
// the mutating goroutine after the window's lock is released. The returned
// function unregisters fn.
func (w *Window) OnChange(fn func(Change)) (cancel func()) {
	w.listenMu.Lock()
	defer w.listenMu.Unlock()
	w.nextID++
	id := w.nextID
	w.listeners = append(w.listeners, listener{id: id, fn: fn})
	return func() {
		w.listenMu.Lock()
		defer w.listenMu.Unlock()
		for i, l := range w.listeners {
			if l.id == id {
				w.listeners = append(w.listeners[:i:i], w.listeners[i+1:]...)
				return
			}
		}
	}
}

func (w *Window) emit(c Change) {
	w.listenMu.Lock()
	ls := make([]listener, len(w.listeners))
	copy(ls, w.listeners)
	w.listenMu.Unlock()

	Logger().Debug("efield: charges changed",
		"reason", c.Reason.String(),
		"revision", c.Revision)
	for _, l := range ls {
		l.fn(c)
	}
}

// bump increments the revision. Callers hold mu.
func (w *Window) bump() uint64 {
	w.revision++
	return w.revision
}

// AddCharge validates c and appends a copy of it.
func (w *Window) AddCharge(c Charge) (uuid.UUID, error) {
	if isNilCharge(c) {
		return uuid.Nil, ErrNilCharge
	}
	if err := c.validate(); err != nil {
		Logger().Warn("efield: rejected charge", "kind", c.Kind().String(), "err", err)
		return uuid.Nil, err
	}

	id := uuid.New()
	w.mu.Lock()
	w.active = append(w.active, entry{id: id, charge: c.Clone()})
	rev := w.bump()
	w.mu.Unlock()

	w.emit(Change{Reason: ChangeAdded, Revision: rev})
	return id, nil
}

// RemoveLastCharge moves the most recently added charge onto the removed
// stack. It reports false and does nothing when there are no charges.
func (w *Window) RemoveLastCharge() bool {
	w.mu.Lock()
	n := len(w.active)
	if n == 0 {
		w.mu.Unlock()
		return false
	}
	w.removed = append(w.removed, w.active[n-1])
	w.active = w.active[:n-1]
	rev := w.bump()
	w.mu.Unlock()

	w.emit(Change{Reason: ChangeRemoved, Revision: rev})
	return true
}

// UndoChargeRemoval re-adds the most recently removed charge. It reports
// false and does nothing when the removed stack is empty.
func (w *Window) UndoChargeRemoval() bool {
	w.mu.Lock()
	n := len(w.removed)
	if n == 0 {
		w.mu.Unlock()
		return false
	}
	w.active = append(w.active, w.removed[n-1])
	w.removed = w.removed[:n-1]
	rev := w.bump()
	w.mu.Unlock()

	w.emit(Change{Reason: ChangeRestored, Revision: rev})
	return true
}

// RemoveAllCharges appends every active charge, in order, to the removed
// stack. It reports false and does nothing when there are no charges.
func (w *Window) RemoveAllCharges() bool {
	w.mu.Lock()
	if len(w.active) == 0 {
		w.mu.Unlock()
		return false
	}
	w.removed = append(w.removed, w.active...)
	w.active = nil
	rev := w.bump()
	w.mu.Unlock()

	w.emit(Change{Reason: ChangeRemovedAll, Revision: rev})
	return true
}

// ReaddAllCharges appends every removed charge, in order, to the active
// list. It reports false and does nothing when the removed stack is empty.
func (w *Window) ReaddAllCharges() bool {
	w.mu.Lock()
	if len(w.removed) == 0 {
		w.mu.Unlock()
		return false
	}
	w.active = append(w.active, w.removed...)
	w.removed = nil
	rev := w.bump()
	w.mu.Unlock()

	w.emit(Change{Reason: ChangeReaddedAll, Revision: rev})
	return true
}

// Edit runs fn on the active charge with the given id. If fn returns an
// error, panics, or leaves the charge invalid, the charge is restored; an
// error is returned and a panic propagates. fn runs under the window's write
// lock, so it must not retain c or call back into the Window.
func (w *Window) Edit(id uuid.UUID, fn func(c Charge) error) error {
	rev, err := w.editLocked(id, fn)
	if err != nil {
		if !errors.Is(err, ErrChargeNotFound) {
			Logger().Warn("efield: edit rejected", "id", id.String(), "err", err)
		}
		return err
	}
	w.emit(Change{Reason: ChangeEdited, Revision: rev})
	return nil
}

func (w *Window) editLocked(id uuid.UUID, fn func(c Charge) error) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(id)
	if i < 0 {
		return 0, ErrChargeNotFound
	}
	c := w.active[i].charge
	backup := c.Clone()
	committed := false
	defer func() {
		if !committed {
			w.active[i].charge = backup
		}
	}()

	if err := fn(c); err != nil {
		return 0, err
	}
	if err := c.validate(); err != nil {
		return 0, err
	}
	committed = true
	return w.bump(), nil
}

func (w *Window) indexLocked(id uuid.UUID) int {
	for i, e := range w.active {
		if e.id == id {
			return i
		}
	}
	return -1
}

// Charge returns a copy of the active charge with the given id.
func (w *Window) Charge(id uuid.UUID) (Charge, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := w.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return w.active[i].charge.Clone(), true
}

// Charges returns copies of the active charges in order.
func (w *Window) Charges() []Charge {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneCharges(w.active)
}

// IDs returns the handles of the active charges in order.
func (w *Window) IDs() []uuid.UUID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]uuid.UUID, len(w.active))
	for i, e := range w.active {
		ids[i] = e.id
	}
	return ids
}

// Len returns the number of active charges.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.active)
}

// RemovedLen returns the depth of the removed stack.
func (w *Window) RemovedLen() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.removed)
}

// Revision returns a counter incremented by every mutation.
func (w *Window) Revision() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.revision
}

// ElectricFieldX returns the summed x component of the active charges.
func (w *Window) ElectricFieldX(p Point) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return sumEntries(w.active, p, Charge.ElectricFieldX)
}

// ElectricFieldY returns the summed y component of the active charges.
func (w *Window) ElectricFieldY(p Point) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return sumEntries(w.active, p, Charge.ElectricFieldY)
}

// NetElectricField returns sqrt(Ex² + Ey²), with both components summed
// under one read lock.
func (w *Window) NetElectricField(p Point) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return net(sumEntries(w.active, p, Charge.ElectricFieldX), sumEntries(w.active, p, Charge.ElectricFieldY))
}

// EquationSets returns the equations of every active charge in order.
func (w *Window) EquationSets() []Equations {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sets := make([]Equations, len(w.active))
	for i, e := range w.active {
		sets[i] = e.charge.Equations()
	}
	return sets
}

// DefaultBounds returns the bounds inferred from the active charges.
func (w *Window) DefaultBounds() GraphBounds {
	return InferBounds(w.Charges())
}

// Snapshot returns an immutable copy of the active charges.
func (w *Window) Snapshot() *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return &Snapshot{charges: cloneCharges(w.active), revision: w.revision}
}

// Snapshot is a frozen set of charges. It is safe for concurrent reads.
type Snapshot struct {
	charges  []Charge
	revision uint64
}

// NewSnapshot validates charges and freezes copies of them.
func NewSnapshot(charges ...Charge) (*Snapshot, error) {
	s := &Snapshot{charges: make([]Charge, len(charges))}
	for i, c := range charges {
		if isNilCharge(c) {
			return nil, ErrNilCharge
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		s.charges[i] = c.Clone()
	}
	return s, nil
}

// Revision returns the window revision the snapshot was taken at.
func (s *Snapshot) Revision() uint64 { return s.revision }

// Len returns the number of charges.
func (s *Snapshot) Len() int { return len(s.charges) }

// Charges returns copies of the frozen charges.
func (s *Snapshot) Charges() []Charge {
	out := make([]Charge, len(s.charges))
	for i, c := range s.charges {
		out[i] = c.Clone()
	}
	return out
}

// ElectricFieldX returns the summed x component.
func (s *Snapshot) ElectricFieldX(p Point) float64 {
	return sumCharges(s.charges, p, Charge.ElectricFieldX)
}

// ElectricFieldY returns the summed y component.
func (s *Snapshot) ElectricFieldY(p Point) float64 {
	return sumCharges(s.charges, p, Charge.ElectricFieldY)
}

// NetElectricField returns sqrt(Ex² + Ey²).
func (s *Snapshot) NetElectricField(p Point) float64 {
	return net(s.ElectricFieldX(p), s.ElectricFieldY(p))
}

func cloneCharges(entries []entry) []Charge {
	out := make([]Charge, len(entries))
	for i, e := range entries {
		out[i] = e.charge.Clone()
	}
	return out
}

// sumEntries and sumCharges drop non-finite contributions so one charge's
// singularity cannot poison the total.
func sumEntries(entries []entry, p Point, component func(Charge, Point) float64) float64 {
	total := 0.0
	for _, e := range entries {
		total += finiteOrZero(component(e.charge, p))
	}
	return total
}

func sumCharges(charges []Charge, p Point, component func(Charge, Point) float64) float64 {
	total := 0.0
	for _, c := range charges {
		total += finiteOrZero(component(c, p))
	}
	return total
}

func net(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}
