// Implements the Store, a bounded FIFO buffer processes block on.
// Wagons staged between coordinators travel through Stores.

package sim

// storeWaiter is a blocked producer or consumer. Consumers receive
// their item by direct hand-off so FIFO fairness cannot be defeated by
// a process that arrives between the wake-up and the resumption.
type storeWaiter[T any] struct {
	proc *Process
	item T
}

// Store is a bounded FIFO buffer with blocking Put and Get. Both sides
// resume the longest-waiting blocked process first; a process that
// finds waiters ahead of it queues behind them even when the buffer
// itself could serve it (no barging). Capacity <= 0 means unbounded.
type Store[T any] struct {
	sched    *Scheduler
	capacity int
	items    []T

	putters []*storeWaiter[T]
	getters []*storeWaiter[T]

	// notify, when non-nil, is broadcast on every successful Put so
	// accumulating consumers can watch occupancy without polling.
	notify *Cond
}

// NewStore returns an empty store bound to the scheduler.
func NewStore[T any](sched *Scheduler, capacity int) *Store[T] {
	return &Store[T]{sched: sched, capacity: capacity}
}

// Notify returns the condition broadcast after every successful Put.
func (st *Store[T]) Notify() *Cond {
	if st.notify == nil {
		st.notify = st.sched.NewCond()
	}
	return st.notify
}

func (st *Store[T]) broadcastPut() {
	if st.notify != nil {
		st.notify.Broadcast()
	}
}

// Len returns the number of buffered items.
func (st *Store[T]) Len() int { return len(st.items) }

// Items returns the buffered items for inspection. Callers must not
// mutate the returned slice.
func (st *Store[T]) Items() []T { return st.items }

func (st *Store[T]) full() bool {
	return st.capacity > 0 && len(st.items) >= st.capacity
}

// Put appends item, suspending the calling process while the store is
// full. Blocked producers are admitted in arrival order.
func (st *Store[T]) Put(p *Process, item T) {
	if len(st.getters) > 0 {
		// Hand directly to the longest-waiting consumer.
		g := st.getters[0]
		st.getters = st.getters[1:]
		g.item = item
		st.sched.schedule(st.sched.now, g.proc.step)
		st.broadcastPut()
		return
	}
	if !st.full() && len(st.putters) == 0 {
		st.items = append(st.items, item)
		st.broadcastPut()
		return
	}
	w := &storeWaiter[T]{proc: p, item: item}
	st.putters = append(st.putters, w)
	p.suspend()
	st.broadcastPut()
}

// Get removes and returns the oldest item, suspending the calling
// process while the store is empty.
func (st *Store[T]) Get(p *Process) T {
	if len(st.items) > 0 && len(st.getters) == 0 {
		item := st.items[0]
		st.items = st.items[1:]
		st.admitPutter()
		return item
	}
	w := &storeWaiter[T]{proc: p}
	st.getters = append(st.getters, w)
	p.suspend()
	return w.item
}

// Peek returns the oldest buffered item without removing it. ok is
// false when the store is empty or consumers are already queued, the
// same cases in which TryGet would fail.
func (st *Store[T]) Peek() (item T, ok bool) {
	if len(st.items) == 0 || len(st.getters) > 0 {
		return item, false
	}
	return st.items[0], true
}

// TryGet removes and returns the oldest item without suspending.
// ok is false when the store is empty or consumers are already queued.
func (st *Store[T]) TryGet() (item T, ok bool) {
	if len(st.items) == 0 || len(st.getters) > 0 {
		return item, false
	}
	item = st.items[0]
	st.items = st.items[1:]
	st.admitPutter()
	return item, true
}

// admitPutter moves the longest-waiting blocked producer's item into
// the freed slot and resumes it.
func (st *Store[T]) admitPutter() {
	if len(st.putters) == 0 {
		return
	}
	w := st.putters[0]
	st.putters = st.putters[1:]
	st.items = append(st.items, w.item)
	st.sched.schedule(st.sched.now, w.proc.step)
}
