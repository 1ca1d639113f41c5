// sim/scheduler.go
//
// The discrete-event kernel: a virtual clock, a deterministic event
// queue, and cooperatively scheduled processes. Everything else in the
// package is built on top of these three pieces.

package sim

import (
	"container/heap"
	"math"

	"github.com/sirupsen/logrus"
)

// event is a scheduled resumption in the kernel's queue. seq is a
// monotonically increasing tie-breaker so that events scheduled at the
// same virtual time fire in scheduling order, reproducibly.
type event struct {
	time      float64
	seq       uint64
	fire      func()
	cancelled bool
}

// eventQueue implements heap.Interface and orders events by (time, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventQueue []*event

func (eq eventQueue) Len() int { return len(eq) }

func (eq eventQueue) Less(i, j int) bool {
	if eq[i].time != eq[j].time {
		return eq[i].time < eq[j].time
	}
	return eq[i].seq < eq[j].seq
}

func (eq eventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventQueue) Push(x any) {
	*eq = append(*eq, x.(*event))
}

func (eq *eventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	*eq = old[:n-1]
	return item
}

// Scheduler owns the virtual clock and the event queue. The clock is
// advanced only by the run loop, and only when the next event's time
// exceeds the current time. All shared state is mutated while exactly
// one process holds the turn, so no other synchronization primitive
// exists anywhere in the package.
type Scheduler struct {
	now   float64
	seq   uint64
	queue eventQueue
}

// NewScheduler returns a scheduler with the clock at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{queue: make(eventQueue, 0)}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time in minutes.
func (s *Scheduler) Now() float64 { return s.now }

// Pending returns the number of events still queued, cancelled
// placeholders included.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// schedule enqueues fire at absolute time at and returns the event so
// the owner can cancel it. Scheduling in the past is a kernel bug.
func (s *Scheduler) schedule(at float64, fire func()) *event {
	if at < s.now {
		logrus.Panicf("schedule: time %.4f is before now %.4f", at, s.now)
	}
	s.seq++
	ev := &event{time: at, seq: s.seq, fire: fire}
	heap.Push(&s.queue, ev)
	return ev
}

// Run drains the event queue completely. The clock is left at the time
// of the last fired event.
func (s *Scheduler) Run() {
	s.RunUntil(math.Inf(1))
}

// RunUntil fires every event with time <= until, in (time, seq) order.
// With a finite bound the clock is advanced to the bound before
// returning, even if the queue drained earlier; events past the bound
// stay queued for a later call.
func (s *Scheduler) RunUntil(until float64) {
	for s.queue.Len() > 0 {
		if s.queue[0].time > until {
			break
		}
		ev := heap.Pop(&s.queue).(*event)
		if ev.cancelled {
			continue
		}
		s.now = ev.time
		ev.fire()
	}
	if !math.IsInf(until, 1) && s.now < until {
		s.now = until
	}
}

// Process is a resumable simulated activity running on its own
// goroutine. The scheduler and the process hand a single "turn" back
// and forth over two unbuffered channels: the process only runs
// between a resume and the following yield, so any code between two
// suspension points is atomic with respect to every other process.
type Process struct {
	sched *Scheduler
	name  string

	resume chan struct{} // scheduler -> process: take the turn
	yield  chan struct{} // process -> scheduler: turn returned
}

// Spawn starts body as a new process. The body does not run
// immediately: its first turn is queued at the current time, so spawn
// order at equal times is start order.
func (s *Scheduler) Spawn(name string, body func(*Process)) *Process {
	p := &Process{
		sched:  s,
		name:   name,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	go func() {
		<-p.resume
		body(p)
		p.yield <- struct{}{}
	}()
	s.schedule(s.now, p.step)
	return p
}

// SpawnAt is Spawn with the first turn queued at absolute time at
// instead of now. Used for train arrivals known up front.
func (s *Scheduler) SpawnAt(at float64, name string, body func(*Process)) *Process {
	p := &Process{
		sched:  s,
		name:   name,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}
	go func() {
		<-p.resume
		body(p)
		p.yield <- struct{}{}
	}()
	s.schedule(at, p.step)
	return p
}

// Name returns the process name used in logs.
func (p *Process) Name() string { return p.name }

// Scheduler returns the kernel this process runs on.
func (p *Process) Scheduler() *Scheduler { return p.sched }

// Now returns the current virtual time.
func (p *Process) Now() float64 { return p.sched.now }

// step hands the turn to the process goroutine and blocks the run loop
// until the process suspends again or returns. This handshake is what
// keeps the whole simulation effectively single-threaded.
func (p *Process) step() {
	p.resume <- struct{}{}
	<-p.yield
}

// suspend gives the turn back to the run loop and parks the process
// until some queued event calls step again. Must only be called from
// the process's own goroutine.
func (p *Process) suspend() {
	p.yield <- struct{}{}
	<-p.resume
}

// Sleep suspends the process for d virtual minutes. Negative durations
// are treated as zero, which still yields the turn.
func (p *Process) Sleep(d float64) {
	if d < 0 {
		d = 0
	}
	p.sched.schedule(p.sched.now+d, p.step)
	p.suspend()
}

// Timeout is a cancellable pending wake-up, used for teardown of poll
// delays that should not outlive their owner. Cancelling a timeout
// that already fired is a no-op.
type Timeout struct {
	ev      *event
	trigger *Trigger
}

// After arms a timeout d minutes from now. The returned timeout's
// trigger fires when it elapses.
func (s *Scheduler) After(d float64) *Timeout {
	if d < 0 {
		d = 0
	}
	t := &Timeout{trigger: s.NewTrigger()}
	t.ev = s.schedule(s.now+d, t.trigger.Fire)
	return t
}

// Trigger returns the trigger that fires when the timeout elapses.
func (t *Timeout) Trigger() *Trigger { return t.trigger }

// Cancel invalidates the pending wake-up.
func (t *Timeout) Cancel() {
	t.ev.cancelled = true
}

// Trigger is a one-shot condition processes can suspend on. Waiters
// are resumed through the event queue in wait order, so firing a
// trigger preserves the kernel's deterministic ordering.
type Trigger struct {
	sched   *Scheduler
	fired   bool
	waiters []func()
}

// NewTrigger returns an unfired trigger bound to this scheduler.
func (s *Scheduler) NewTrigger() *Trigger {
	return &Trigger{sched: s}
}

// Fired reports whether the trigger has fired.
func (t *Trigger) Fired() bool { return t.fired }

// Fire fires the trigger, scheduling every waiter's resumption at the
// current time in wait order. Firing twice is a no-op.
func (t *Trigger) Fire() {
	if t.fired {
		return
	}
	t.fired = true
	for _, w := range t.waiters {
		t.sched.schedule(t.sched.now, w)
	}
	t.waiters = nil
}

// subscribe registers fn to run (via the event queue) when the trigger
// fires. Subscribing to a fired trigger schedules fn immediately.
func (t *Trigger) subscribe(fn func()) {
	if t.fired {
		t.sched.schedule(t.sched.now, fn)
		return
	}
	t.waiters = append(t.waiters, fn)
}

// Await suspends until the trigger fires. Returns without yielding if
// it already fired.
func (p *Process) Await(t *Trigger) {
	if t.fired {
		return
	}
	t.subscribe(p.step)
	p.suspend()
}

// AwaitAll suspends until every trigger has fired.
func (p *Process) AwaitAll(triggers ...*Trigger) {
	for _, t := range triggers {
		p.Await(t)
	}
}

// AwaitAny suspends until at least one trigger fires and returns the
// first one that did. If several already fired, the earliest in
// argument order wins without yielding.
func (p *Process) AwaitAny(triggers ...*Trigger) *Trigger {
	for _, t := range triggers {
		if t.fired {
			return t
		}
	}
	var winner *Trigger
	woken := false
	for _, t := range triggers {
		t := t
		t.subscribe(func() {
			if woken {
				return // a sibling trigger won this wait
			}
			woken = true
			winner = t
			p.step()
		})
	}
	p.suspend()
	return winner
}

// Cond is a reusable broadcast condition: every process waiting at
// broadcast time is resumed in wait order. Processes that start
// waiting after a broadcast wait for the next one.
type Cond struct {
	sched   *Scheduler
	waiters []func()
}

// NewCond returns a reusable broadcast condition.
func (s *Scheduler) NewCond() *Cond {
	return &Cond{sched: s}
}

// Wait suspends the process until the next Broadcast.
func (c *Cond) Wait(p *Process) {
	c.waiters = append(c.waiters, p.step)
	p.suspend()
}

// NextTrigger returns a one-shot trigger that fires on the next
// Broadcast, for use in composite waits.
func (c *Cond) NextTrigger() *Trigger {
	t := c.sched.NewTrigger()
	c.waiters = append(c.waiters, t.Fire)
	return t
}

// Broadcast resumes every currently waiting process, in wait order.
func (c *Cond) Broadcast() {
	waiters := c.waiters
	c.waiters = nil
	for _, w := range waiters {
		c.sched.schedule(c.sched.now, w)
	}
}
