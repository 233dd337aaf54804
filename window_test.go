package efield

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// newTestWindow returns a window with three point charges A, B, C and their
// handles.
func newTestWindow(t *testing.T) (*Window, []uuid.UUID) {
	t.Helper()
	w, err := NewWindow(
		mustPoint(t, Pt(0, 0), 1),
		mustPoint(t, Pt(1, 0), 2),
		mustPoint(t, Pt(2, 0), 3),
	)
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}
	return w, w.IDs()
}

func chargesOf(w *Window) []float64 {
	var qs []float64
	for _, c := range w.Charges() {
		qs = append(qs, c.(*PointCharge).Charge())
	}
	return qs
}

func TestWindow_RemoveThenUndoRestoresOrder(t *testing.T) {
	w, ids := newTestWindow(t)

	if !w.RemoveLastCharge() {
		t.Fatal("RemoveLastCharge() = false, want true")
	}
	if diff := cmp.Diff(ids[:2], w.IDs()); diff != "" {
		t.Errorf("IDs after remove mismatch (-want +got):\n%s", diff)
	}
	if w.RemovedLen() != 1 {
		t.Errorf("RemovedLen() = %d, want 1", w.RemovedLen())
	}

	if !w.UndoChargeRemoval() {
		t.Fatal("UndoChargeRemoval() = false, want true")
	}
	if diff := cmp.Diff(ids, w.IDs()); diff != "" {
		t.Errorf("IDs after undo mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, chargesOf(w)); diff != "" {
		t.Errorf("charges after undo mismatch (-want +got):\n%s", diff)
	}
}

func TestWindow_UndoIsLastRemovedFirstRestored(t *testing.T) {
	w, ids := newTestWindow(t)

	w.RemoveLastCharge() // C
	w.RemoveLastCharge() // B
	w.UndoChargeRemoval()

	if diff := cmp.Diff([]uuid.UUID{ids[0], ids[1]}, w.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	w.UndoChargeRemoval()
	if diff := cmp.Diff(ids, w.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestWindow_RemoveAllThenReaddIsIdentity(t *testing.T) {
	w, ids := newTestWindow(t)

	if !w.RemoveAllCharges() {
		t.Fatal("RemoveAllCharges() = false, want true")
	}
	if w.Len() != 0 || w.RemovedLen() != 3 {
		t.Errorf("Len, RemovedLen = %d, %d, want 0, 3", w.Len(), w.RemovedLen())
	}
	if !w.ReaddAllCharges() {
		t.Fatal("ReaddAllCharges() = false, want true")
	}
	if diff := cmp.Diff(ids, w.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	if w.RemovedLen() != 0 {
		t.Errorf("RemovedLen() = %d, want 0", w.RemovedLen())
	}
}

func TestWindow_RemoveAllThenUndoPopsLast(t *testing.T) {
	w, ids := newTestWindow(t)
	w.RemoveAllCharges()
	w.UndoChargeRemoval()

	if diff := cmp.Diff([]uuid.UUID{ids[2]}, w.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestWindow_EmptyOperationsAreNoOps(t *testing.T) {
	w, _ := NewWindow()
	var changes int
	w.OnChange(func(Change) { changes++ })

	if w.RemoveLastCharge() {
		t.Error("RemoveLastCharge() on empty window = true")
	}
	if w.UndoChargeRemoval() {
		t.Error("UndoChargeRemoval() with empty stack = true")
	}
	if w.RemoveAllCharges() {
		t.Error("RemoveAllCharges() on empty window = true")
	}
	if w.ReaddAllCharges() {
		t.Error("ReaddAllCharges() with empty stack = true")
	}
	if changes != 0 {
		t.Errorf("changes = %d, want 0", changes)
	}
	if w.Revision() != 0 {
		t.Errorf("Revision() = %d, want 0", w.Revision())
	}
}

func TestWindow_NotifiesOncePerMutation(t *testing.T) {
	w, ids := newTestWindow(t)

	var got []Change
	cancel := w.OnChange(func(c Change) { got = append(got, c) })

	w.RemoveLastCharge()
	w.UndoChargeRemoval()
	w.RemoveAllCharges()
	w.ReaddAllCharges()
	if err := w.Edit(ids[0], func(c Charge) error {
		return c.(*PointCharge).SetCharge(-1)
	}); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if _, err := w.AddCharge(mustPoint(t, Pt(5, 5), 1)); err != nil {
		t.Fatalf("AddCharge() error = %v", err)
	}

	want := []Change{
		{ChangeRemoved, 4},
		{ChangeRestored, 5},
		{ChangeRemovedAll, 6},
		{ChangeReaddedAll, 7},
		{ChangeEdited, 8},
		{ChangeAdded, 9},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}

	cancel()
	w.RemoveLastCharge()
	if len(got) != len(want) {
		t.Errorf("listener called after cancel: %d changes", len(got))
	}
}

func TestWindow_AddChargeRejectsInvalid(t *testing.T) {
	w, _ := NewWindow()

	if _, err := w.AddCharge(nil); !errors.Is(err, ErrNilCharge) {
		t.Errorf("AddCharge(nil) error = %v, want ErrNilCharge", err)
	}
	if _, err := w.AddCharge(&InfiniteLineCharge{c: 1}); !errors.Is(err, ErrDegenerateLine) {
		t.Errorf("AddCharge(degenerate) error = %v, want ErrDegenerateLine", err)
	}
	if _, err := w.AddCharge(&PointCharge{charge: math.Inf(-1)}); !errors.Is(err, ErrNonFinite) {
		t.Errorf("AddCharge(-Inf charge) error = %v, want ErrNonFinite", err)
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d after rejected adds, want 0", w.Len())
	}
}

func TestWindow_AddChargeRejectsNilVariants(t *testing.T) {
	w, _ := NewWindow()
	p, err := NewPointCharge(Pt(math.NaN(), 0), 1)
	if err == nil {
		t.Fatal("NewPointCharge(NaN) succeeded")
	}

	for _, c := range []Charge{p, (*InfiniteLineCharge)(nil), (*CircleCharge)(nil), (*RingCharge)(nil)} {
		if _, err := w.AddCharge(c); !errors.Is(err, ErrNilCharge) {
			t.Errorf("AddCharge(%T nil) error = %v, want ErrNilCharge", c, err)
		}
	}
	if w.Len() != 0 || w.Revision() != 0 {
		t.Errorf("Len, Revision = %d, %d after rejected adds, want 0, 0", w.Len(), w.Revision())
	}
	if _, err := NewWindow(mustPoint(t, Pt(0, 0), 1), (*PointCharge)(nil)); !errors.Is(err, ErrNilCharge) {
		t.Errorf("NewWindow(typed nil) error = %v, want ErrNilCharge", err)
	}
}

func TestNewSnapshot(t *testing.T) {
	snap, err := NewSnapshot(mustPoint(t, Pt(0, 0), 1), mustPoint(t, Pt(1, 0), 2))
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	if snap.Len() != 2 {
		t.Errorf("Len() = %d, want 2", snap.Len())
	}

	if _, err := NewSnapshot(nil); !errors.Is(err, ErrNilCharge) {
		t.Errorf("NewSnapshot(nil) error = %v, want ErrNilCharge", err)
	}
	if _, err := NewSnapshot((*RingCharge)(nil)); !errors.Is(err, ErrNilCharge) {
		t.Errorf("NewSnapshot(typed nil) error = %v, want ErrNilCharge", err)
	}
	if _, err := NewSnapshot(&InfiniteLineCharge{c: 1}); !errors.Is(err, ErrDegenerateLine) {
		t.Errorf("NewSnapshot(degenerate) error = %v, want ErrDegenerateLine", err)
	}
}

func TestWindow_StoresCopies(t *testing.T) {
	w, _ := NewWindow()
	c := mustPoint(t, Pt(0, 0), 1)
	id, err := w.AddCharge(c)
	if err != nil {
		t.Fatal(err)
	}

	_ = c.SetCharge(100)
	got, ok := w.Charge(id)
	if !ok {
		t.Fatal("Charge(id) not found")
	}
	if q := got.(*PointCharge).Charge(); q != 1 {
		t.Errorf("stored charge = %v after mutating the original, want 1", q)
	}
}

func TestWindow_EditRestoresOnError(t *testing.T) {
	w, ids := newTestWindow(t)
	rev := w.Revision()
	var changes int
	w.OnChange(func(Change) { changes++ })

	boom := errors.New("dialog cancelled")
	err := w.Edit(ids[1], func(c Charge) error {
		_ = c.(*PointCharge).SetCharge(42)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Edit() error = %v, want %v", err, boom)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, chargesOf(w)); diff != "" {
		t.Errorf("charges mismatch (-want +got):\n%s", diff)
	}
	if changes != 0 || w.Revision() != rev {
		t.Errorf("failed edit notified: changes=%d revision=%d", changes, w.Revision())
	}
}

func TestWindow_EditPanicReleasesLock(t *testing.T) {
	w, ids := newTestWindow(t)
	rev := w.Revision()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Edit() did not propagate the panic")
			}
		}()
		_ = w.Edit(ids[0], func(c Charge) error {
			_ = c.(*PointCharge).SetCharge(42)
			panic("dialog crashed")
		})
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if w.Len() != 3 {
			t.Errorf("Len() = %d, want 3", w.Len())
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("window still locked after a panicking edit")
	}

	if diff := cmp.Diff([]float64{1, 2, 3}, chargesOf(w)); diff != "" {
		t.Errorf("charges mismatch (-want +got):\n%s", diff)
	}
	if w.Revision() != rev {
		t.Errorf("Revision() = %d, want %d", w.Revision(), rev)
	}
	if err := w.Edit(ids[0], func(c Charge) error { return c.(*PointCharge).SetCharge(5) }); err != nil {
		t.Errorf("Edit() after recovered panic error = %v", err)
	}
}

func TestWindow_EditUnknownOrRemoved(t *testing.T) {
	w, ids := newTestWindow(t)
	noop := func(Charge) error { return nil }

	if err := w.Edit(uuid.New(), noop); !errors.Is(err, ErrChargeNotFound) {
		t.Errorf("Edit(unknown) error = %v, want ErrChargeNotFound", err)
	}
	w.RemoveLastCharge()
	if err := w.Edit(ids[2], noop); !errors.Is(err, ErrChargeNotFound) {
		t.Errorf("Edit(removed) error = %v, want ErrChargeNotFound", err)
	}
}

func TestWindow_NetFieldIdentity(t *testing.T) {
	w, err := NewWindow(DemoCharges()...)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []Point{Pt(0, 0), Pt(1, 4), Pt(-2.5, 3.3), Pt(7, -1), Pt(0.25, 0.75)} {
		ex, ey := w.ElectricFieldX(p), w.ElectricFieldY(p)
		if got, want := w.NetElectricField(p), math.Sqrt(ex*ex+ey*ey); got != want {
			t.Errorf("NetElectricField(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestWindow_DipoleMidline(t *testing.T) {
	w, err := NewWindow(mustPoint(t, Pt(0, 0), 10), mustPoint(t, Pt(10, 0), -10))
	if err != nil {
		t.Fatal(err)
	}
	p := Pt(5, 0)
	if got := w.ElectricFieldY(p); math.Abs(got) > 1e-6 {
		t.Errorf("ElectricFieldY(%v) = %v, want 0", p, got)
	}
	// Both charges push a positive test charge toward +x.
	if got, want := w.ElectricFieldX(p), 2*CoulombConstant*10/25; !approxEqual(got, want, 1e-12) {
		t.Errorf("ElectricFieldX(%v) = %v, want %v", p, got, want)
	}
}

func TestWindow_SingularityDoesNotPoisonSum(t *testing.T) {
	w, err := NewWindow(mustPoint(t, Pt(0, 0), 5), mustPoint(t, Pt(1, 0), 1))
	if err != nil {
		t.Fatal(err)
	}
	p := Pt(0, 0)
	if got, want := w.ElectricFieldX(p), -CoulombConstant; !approxEqual(got, want, 1e-12) {
		t.Errorf("ElectricFieldX(%v) = %v, want %v", p, got, want)
	}
}

func TestWindow_SnapshotIsFrozen(t *testing.T) {
	w, ids := newTestWindow(t)
	snap := w.Snapshot()
	p := Pt(0.5, 3)
	before := snap.ElectricFieldX(p)

	w.RemoveAllCharges()
	if err := w.Edit(ids[0], func(Charge) error { return nil }); !errors.Is(err, ErrChargeNotFound) {
		t.Fatalf("Edit() after RemoveAll error = %v", err)
	}

	if got := snap.ElectricFieldX(p); got != before {
		t.Errorf("snapshot ElectricFieldX changed: %v, want %v", got, before)
	}
	if snap.Len() != 3 || snap.Revision() != 3 {
		t.Errorf("snapshot Len, Revision = %d, %d, want 3, 3", snap.Len(), snap.Revision())
	}
	if w.ElectricFieldX(p) != 0 {
		t.Errorf("window ElectricFieldX = %v, want 0 after RemoveAll", w.ElectricFieldX(p))
	}
}

func TestWindow_EquationSets(t *testing.T) {
	w, _ := newTestWindow(t)
	sets := w.EquationSets()
	if len(sets) != 3 {
		t.Fatalf("len(EquationSets()) = %d, want 3", len(sets))
	}
	for i, s := range sets {
		if s.Kind != KindPoint {
			t.Errorf("sets[%d].Kind = %v, want point", i, s.Kind)
		}
	}
}

func TestWindow_ConcurrentMutationAndSampling(t *testing.T) {
	w, _ := newTestWindow(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 200 {
			w.RemoveLastCharge()
			w.UndoChargeRemoval()
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 200 {
			_ = w.NetElectricField(Pt(float64(i)/10, 1))
			_ = w.Snapshot()
		}
	}()
	wg.Wait()

	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
}

func TestChangeReasonString(t *testing.T) {
	if got := ChangeReaddedAll.String(); got != "re-added all" {
		t.Errorf("ChangeReaddedAll.String() = %q", got)
	}
	if got := ChangeReason(0).String(); got != "unknown" {
		t.Errorf("ChangeReason(0).String() = %q, want unknown", got)
	}
}
