package entitystore

import (
	"errors"
	"sync"
	"testing"
)

type item struct {
	ID   int64
	Name string
}

func ids(items []item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equalIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInitialState(t *testing.T) {
	var s State[item]
	if s.Phase() != PhaseIdle || s.Loading() || s.Updating() || s.UpdateSuccess() || s.ErrorMessage() != "" {
		t.Fatalf("unexpected initial state %+v", s)
	}
	if len(s.Entities()) != 0 || s.Entity() != (item{}) {
		t.Fatalf("expected empty list and empty entity")
	}
}

func TestListReplacesEntitiesWholesale(t *testing.T) {
	c := NewContainer[item]()

	seq := c.Begin(OpList, false)
	if !c.Snapshot().Loading() {
		t.Fatalf("expected loading after start")
	}
	c.Dispatch(ListLoaded(seq, []item{{ID: 3}, {ID: 1}, {ID: 2}}))

	seq = c.Begin(OpList, false)
	s := c.Dispatch(ListLoaded(seq, []item{{ID: 9}}))
	if !equalIDs(ids(s.Entities()), 9) {
		t.Fatalf("expected wholesale replacement, got %v", ids(s.Entities()))
	}
	if s.Phase() != PhaseLoaded {
		t.Fatalf("expected loaded, got %v", s.Phase())
	}
}

func TestWriteSuccessSetsEntityAndUpdateSuccess(t *testing.T) {
	c := NewContainer[item]()
	for _, op := range []Op{OpCreate, OpUpdate, OpPartialUpdate} {
		seq := c.Begin(op, false)
		if s := c.Snapshot(); !s.Updating() || s.UpdateSuccess() {
			t.Fatalf("%v: expected updating without success, got %+v", op, s)
		}
		s := c.Dispatch(EntityLoaded(op, seq, item{ID: 42, Name: op.String()}))
		if !s.UpdateSuccess() || s.Entity().ID != 42 || s.Updating() {
			t.Fatalf("%v: unexpected state %+v", op, s)
		}
	}
}

func TestRefreshAfterWriteKeepsUpdateSuccess(t *testing.T) {
	c := NewContainer[item]()
	seq := c.Begin(OpCreate, false)
	c.Dispatch(EntityLoaded(OpCreate, seq, item{ID: 42}))

	seq = c.Begin(OpList, true)
	if s := c.Snapshot(); !s.UpdateSuccess() || !s.Loading() {
		t.Fatalf("refresh should keep update success while loading, got %+v", s)
	}
	s := c.Dispatch(ListLoaded(seq, []item{{ID: 1}, {ID: 42}}))
	if !s.UpdateSuccess() || !equalIDs(ids(s.Entities()), 1, 42) {
		t.Fatalf("unexpected state after refresh %+v", s)
	}

	// an ordinary list clears it
	c.Begin(OpList, false)
	if c.Snapshot().UpdateSuccess() {
		t.Fatalf("plain list start should clear update success")
	}
}

func TestDeleteResetsEntity(t *testing.T) {
	c := NewContainer[item]()
	seq := c.Begin(OpGet, false)
	c.Dispatch(EntityLoaded(OpGet, seq, item{ID: 5}))

	seq = c.Begin(OpDelete, false)
	s := c.Dispatch(Deleted[item](seq))
	if s.Entity() != (item{}) || !s.UpdateSuccess() || s.Phase() != PhaseLoaded {
		t.Fatalf("unexpected state after delete %+v", s)
	}
}

func TestFailureRetainsPriorValues(t *testing.T) {
	c := NewContainer[item]()
	seq := c.Begin(OpList, false)
	c.Dispatch(ListLoaded(seq, []item{{ID: 1}}))
	seq = c.Begin(OpGet, false)
	c.Dispatch(EntityLoaded(OpGet, seq, item{ID: 1, Name: "one"}))

	boom := errors.New("503 service unavailable")
	for _, op := range []Op{OpList, OpGet, OpCreate, OpUpdate, OpPartialUpdate, OpDelete} {
		seq := c.Begin(op, false)
		s := c.Dispatch(Failed[item](op, seq, boom))
		if s.Loading() || s.Updating() || s.Phase() != PhaseFailed {
			t.Fatalf("%v: expected failed phase, got %v", op, s.Phase())
		}
		if s.ErrorMessage() != boom.Error() || !errors.Is(s.Err(), boom) || s.UpdateSuccess() {
			t.Fatalf("%v: unexpected error state %+v", op, s)
		}
		if !equalIDs(ids(s.Entities()), 1) || s.Entity().Name != "one" {
			t.Fatalf("%v: prior values should be retained, got %+v", op, s)
		}
	}

	// the next start clears the error
	c.Begin(OpList, false)
	if c.Snapshot().ErrorMessage() != "" {
		t.Fatalf("start should clear the error")
	}
}

func TestResetFromAnyState(t *testing.T) {
	c := NewContainer[item]()
	seq := c.Begin(OpCreate, false)
	c.Dispatch(EntityLoaded(OpCreate, seq, item{ID: 1}))
	seq = c.Begin(OpUpdate, false)
	c.Dispatch(Failed[item](OpUpdate, seq, errors.New("bad")))
	c.Begin(OpList, false)

	s := c.Dispatch(Reset[item]())
	if s.Phase() != PhaseIdle || s.Entity() != (item{}) || s.UpdateSuccess() || s.ErrorMessage() != "" || s.InFlight() != 0 {
		t.Fatalf("unexpected state after reset %+v", s)
	}
}

func TestSettlementAfterResetIsIgnored(t *testing.T) {
	c := NewContainer[item]()
	seq := c.Begin(OpGet, false)
	c.Dispatch(Reset[item]())

	s := c.Dispatch(EntityLoaded(OpGet, seq, item{ID: 7}))
	if s.Entity() != (item{}) || s.Phase() != PhaseIdle {
		t.Fatalf("settlement from before reset leaked into %+v", s)
	}
	s = c.Dispatch(Failed[item](OpGet, seq, errors.New("late")))
	if s.ErrorMessage() != "" {
		t.Fatalf("late failure leaked into %+v", s)
	}
}

func TestStaleSettlementsAreIgnored(t *testing.T) {
	c := NewContainer[item]()
	older := c.Begin(OpList, false)
	newer := c.Begin(OpList, false)

	c.Dispatch(ListLoaded(newer, []item{{ID: 2}}))
	if !c.Snapshot().Loading() {
		t.Fatalf("expected loading while the older list is still in flight")
	}
	s := c.Dispatch(ListLoaded(older, []item{{ID: 1}}))
	if !equalIDs(ids(s.Entities()), 2) {
		t.Fatalf("older list overwrote newer: %v", ids(s.Entities()))
	}
	if s.Phase() != PhaseLoaded {
		t.Fatalf("expected loaded once both settled, got %v", s.Phase())
	}

	olderGet := c.Begin(OpGet, false)
	newerGet := c.Begin(OpGet, false)
	c.Dispatch(EntityLoaded(OpGet, newerGet, item{ID: 20}))
	s = c.Dispatch(Failed[item](OpGet, olderGet, errors.New("timeout")))
	if s.Entity().ID != 20 || s.ErrorMessage() != "" {
		t.Fatalf("stale failure should be ignored, got %+v", s)
	}

	// a duplicate settlement is ignored too
	s = c.Dispatch(EntityLoaded(OpGet, newerGet, item{ID: 99}))
	if s.Entity().ID != 20 {
		t.Fatalf("duplicate settlement applied")
	}
}

func TestWriteFailureBehindNewerReadIsReported(t *testing.T) {
	c := NewContainer[item]()
	write := c.Begin(OpUpdate, false)
	read := c.Begin(OpGet, false)

	c.Dispatch(EntityLoaded(OpGet, read, item{ID: 5, Name: "fresh"}))
	s := c.Dispatch(Failed[item](OpUpdate, write, errors.New("500 boom")))
	if s.Phase() != PhaseFailed || s.ErrorMessage() != "500 boom" || s.UpdateSuccess() {
		t.Fatalf("write failure was dropped: phase=%v err=%q success=%v", s.Phase(), s.ErrorMessage(), s.UpdateSuccess())
	}
	if s.Entity().Name != "fresh" {
		t.Fatalf("newer read should keep the entity, got %+v", s.Entity())
	}
}

func TestUpdatingTakesPriorityOverLoading(t *testing.T) {
	c := NewContainer[item]()
	read := c.Begin(OpList, false)
	write := c.Begin(OpUpdate, false)
	if s := c.Snapshot(); !s.Updating() || s.Loading() {
		t.Fatalf("expected updating, got %v", s.Phase())
	}
	c.Dispatch(EntityLoaded(OpUpdate, write, item{ID: 1}))
	if s := c.Snapshot(); !s.Loading() {
		t.Fatalf("expected loading once the write settled, got %v", s.Phase())
	}
	c.Dispatch(ListLoaded(read, []item{{ID: 1}}))
	if s := c.Snapshot(); s.Phase() != PhaseLoaded || !s.UpdateSuccess() {
		t.Fatalf("expected loaded with update success, got %+v", s)
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	var s State[item]
	started := s.Apply(Started[item](OpList, 1, false))
	loaded := started.Apply(ListLoaded(1, []item{{ID: 1}}))
	if started.InFlight() != 1 || len(started.Entities()) != 0 {
		t.Fatalf("Apply changed its receiver: %+v", started)
	}
	if loaded.InFlight() != 0 {
		t.Fatalf("expected settled state")
	}
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	c := NewContainer[item]()
	var mu sync.Mutex
	var phases []Phase
	unsubscribe := c.Subscribe(func(s State[item]) {
		mu.Lock()
		phases = append(phases, s.Phase())
		mu.Unlock()
	})

	seq := c.Begin(OpGet, false)
	c.Dispatch(EntityLoaded(OpGet, seq, item{ID: 1}))
	unsubscribe()
	c.Dispatch(Reset[item]())

	if len(phases) != 2 || phases[0] != PhaseLoading || phases[1] != PhaseLoaded {
		t.Fatalf("unexpected notifications %v", phases)
	}
}

func TestConcurrentDispatch(t *testing.T) {
	c := NewContainer[item]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq := c.Begin(OpList, false)
			c.Dispatch(ListLoaded(seq, []item{{ID: int64(i)}}))
		}(i)
	}
	wg.Wait()
	s := c.Snapshot()
	if s.InFlight() != 0 || s.Phase() != PhaseLoaded || len(s.Entities()) != 1 {
		t.Fatalf("unexpected final state %+v", s)
	}
}

func TestStoreRegistry(t *testing.T) {
	st := NewStore()
	vaccines, err := Register[item](st, "vaccine")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	again, err := Register[item](st, "vaccine")
	if err != nil || again != vaccines {
		t.Fatalf("expected the same container, got %v %v", again, err)
	}
	if _, err := Register[string](st, "vaccine"); err == nil {
		t.Fatalf("expected type mismatch to fail")
	}
	if _, ok := Lookup[string](st, "vaccine"); ok {
		t.Fatalf("lookup with the wrong type should miss")
	}

	seq := vaccines.Begin(OpGet, false)
	vaccines.Dispatch(EntityLoaded(OpGet, seq, item{ID: 4}))
	s, ok := Snapshot[item](st, "vaccine")
	if !ok || s.Entity().ID != 4 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if _, err := Register[int](st, "applicationUser"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if names := st.Names(); len(names) != 2 || names[0] != "applicationUser" || names[1] != "vaccine" {
		t.Fatalf("unexpected names %v", names)
	}
}
