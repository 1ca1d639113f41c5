// Implements the Resource, a pool of N interchangeable slots with a
// starvation-free FIFO wait queue. The LocomotivePool builds on the
// same discipline with concrete units.

package sim

import "github.com/sirupsen/logrus"

// Resource is a counted pool of interchangeable slots. Acquire blocks
// while all slots are held; Release hands the freed slot directly to
// the longest-waiting process, so once enqueued a waiter is served in
// arrival order (no priority preemption, no barging).
type Resource struct {
	sched   *Scheduler
	count   int
	inUse   int
	waiters []*Process
}

// NewResource returns a resource with count free slots.
func NewResource(sched *Scheduler, count int) *Resource {
	if count <= 0 {
		logrus.Panicf("NewResource: count must be positive, got %d", count)
	}
	return &Resource{sched: sched, count: count}
}

// Count returns the total number of slots.
func (r *Resource) Count() int { return r.count }

// Allocated returns the number of slots currently held.
func (r *Resource) Allocated() int { return r.inUse }

// Available returns the number of free slots.
func (r *Resource) Available() int { return r.count - r.inUse }

// Acquire takes a slot, suspending the calling process until one is
// free. A process that finds waiters ahead of it queues behind them
// even when a slot is momentarily free.
func (r *Resource) Acquire(p *Process) {
	if r.inUse < r.count && len(r.waiters) == 0 {
		r.inUse++
		return
	}
	r.waiters = append(r.waiters, p)
	p.suspend()
	// Resumption means the releasing process transferred its slot to
	// us; inUse was never decremented.
}

// Release frees a slot. If processes are waiting, the slot passes
// directly to the longest-waiting one.
func (r *Resource) Release() {
	if r.inUse <= 0 {
		logrus.Panicf("Resource.Release: no slot held (count=%d)", r.count)
	}
	if len(r.waiters) > 0 {
		w := r.waiters[0]
		r.waiters = r.waiters[1:]
		r.sched.schedule(r.sched.now, w.step)
		return
	}
	r.inUse--
}
