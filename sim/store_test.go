package sim

import (
	"reflect"
	"testing"
)

func TestStore_Get_BlocksUntilPut(t *testing.T) {
	// GIVEN a getter parked on an empty store
	s := NewScheduler()
	st := NewStore[string](s, 0)
	var got string
	var gotAt float64 = -1
	s.Spawn("getter", func(p *Process) {
		got = st.Get(p)
		gotAt = p.Now()
	})
	s.Spawn("putter", func(p *Process) {
		p.Sleep(5)
		st.Put(p, "wagon-1")
	})

	// WHEN the queue is drained
	s.Run()

	// THEN the getter resumed at the put time with the item
	if got != "wagon-1" || gotAt != 5 {
		t.Errorf("Get: got (%q, t=%v), want (wagon-1, t=5)", got, gotAt)
	}
	if st.Len() != 0 {
		t.Errorf("store length after hand-off: got %d, want 0", st.Len())
	}
}

func TestStore_Getters_ServedFIFO(t *testing.T) {
	// GIVEN two getters queued in order, then two items
	s := NewScheduler()
	st := NewStore[string](s, 0)
	var first, second string
	s.Spawn("getter-1", func(p *Process) { first = st.Get(p) })
	s.Spawn("getter-2", func(p *Process) { second = st.Get(p) })
	s.Spawn("putter", func(p *Process) {
		p.Sleep(1)
		st.Put(p, "a")
		st.Put(p, "b")
	})

	// WHEN the queue is drained
	s.Run()

	// THEN the longest-waiting getter received the first item
	if first != "a" || second != "b" {
		t.Errorf("FIFO hand-off: got (%q, %q), want (a, b)", first, second)
	}
}

func TestStore_Put_BlocksWhenFull(t *testing.T) {
	// GIVEN a bounded store filled to capacity
	s := NewScheduler()
	st := NewStore[int](s, 1)
	var secondPutAt float64 = -1
	s.Spawn("putter", func(p *Process) {
		st.Put(p, 1)
		st.Put(p, 2) // blocks until the getter drains one slot
		secondPutAt = p.Now()
	})
	s.Spawn("getter", func(p *Process) {
		p.Sleep(6)
		st.Get(p)
	})

	// WHEN the queue is drained
	s.Run()

	// THEN the second put completed only after the get
	if secondPutAt != 6 {
		t.Errorf("blocked put completed at %v, want 6", secondPutAt)
	}
	if st.Len() != 1 {
		t.Errorf("store length: got %d, want 1", st.Len())
	}
}

func TestStore_TryGet(t *testing.T) {
	// GIVEN a store with one item
	s := NewScheduler()
	st := NewStore[string](s, 0)
	s.Spawn("putter", func(p *Process) { st.Put(p, "x") })
	s.Run()

	// WHEN TryGet is called twice
	item, ok := st.TryGet()
	_, ok2 := st.TryGet()

	// THEN the first succeeds and the second reports empty
	if !ok || item != "x" {
		t.Errorf("TryGet: got (%q, %v), want (x, true)", item, ok)
	}
	if ok2 {
		t.Error("TryGet on empty store: got ok=true")
	}
}

func TestStore_Peek_DoesNotRemove(t *testing.T) {
	// GIVEN a store with two items
	s := NewScheduler()
	st := NewStore[string](s, 0)
	s.Spawn("putter", func(p *Process) {
		st.Put(p, "a")
		st.Put(p, "b")
	})
	s.Run()

	// WHEN the head is peeked twice and then taken
	p1, ok1 := st.Peek()
	p2, ok2 := st.Peek()
	taken, _ := st.TryGet()
	next, _ := st.Peek()

	// THEN peeking never consumed and TryGet returned the peeked item
	if !ok1 || !ok2 || p1 != "a" || p2 != "a" {
		t.Errorf("Peek: got (%q, %v) then (%q, %v), want (a, true) twice", p1, ok1, p2, ok2)
	}
	if taken != "a" || next != "b" {
		t.Errorf("after TryGet: got taken=%q next=%q, want a, b", taken, next)
	}
	if _, ok := NewStore[int](s, 0).Peek(); ok {
		t.Error("Peek on empty store: got ok=true")
	}
}

func TestStore_Unbounded_NeverBlocksPut(t *testing.T) {
	// GIVEN an unbounded store
	s := NewScheduler()
	st := NewStore[int](s, 0)
	s.Spawn("putter", func(p *Process) {
		for i := 0; i < 100; i++ {
			st.Put(p, i)
		}
	})

	// WHEN the queue is drained
	s.Run()

	// THEN every item landed, in order
	if st.Len() != 100 {
		t.Fatalf("store length: got %d, want 100", st.Len())
	}
	if st.Items()[0] != 0 || st.Items()[99] != 99 {
		t.Errorf("item order: got ends (%d, %d), want (0, 99)", st.Items()[0], st.Items()[99])
	}
}

func TestResource_Acquire_BlocksWhenExhausted(t *testing.T) {
	// GIVEN a single-slot resource held by the first process
	s := NewScheduler()
	r := NewResource(s, 1)
	var order []string
	s.Spawn("holder", func(p *Process) {
		r.Acquire(p)
		order = append(order, "holder-in")
		p.Sleep(10)
		r.Release()
	})
	s.Spawn("waiter", func(p *Process) {
		r.Acquire(p)
		order = append(order, "waiter-in")
		if p.Now() != 10 {
			t.Errorf("waiter acquired at %v, want 10", p.Now())
		}
		r.Release()
	})

	// WHEN the queue is drained
	s.Run()

	// THEN the waiter entered only after the release, and counts balance
	want := []string{"holder-in", "waiter-in"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("acquire order: got %v, want %v", order, want)
	}
	if r.Allocated() != 0 || r.Available() != 1 {
		t.Errorf("final counts: allocated=%d available=%d, want 0/1", r.Allocated(), r.Available())
	}
}
