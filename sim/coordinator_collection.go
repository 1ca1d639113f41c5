// The collection coordinator: a polling loop that finds classified
// wagons on collection tracks, forms rakes against retrofit-track and
// workshop capacity, hauls them to retrofit staging, and distributes
// them to workshop queues by most unclaimed capacity. When nothing is
// ready the loop parks on the arrival signal; when capacity is the
// blocker it backs off with a fixed delay and retries.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// CollectionCoordinator feeds the retrofit pipeline.
type CollectionCoordinator struct {
	yard     *Yard
	strategy FormationStrategyName
	// readyQueues holds one workshop-ready queue per workshop id.
	readyQueues map[string]*Store[*Wagon]

	// signal is re-armed every time the loop goes idle; arrival fires
	// it when new wagons land.
	signal *Trigger

	// rakeSeq numbers rakes in formation order. Rake ids appear in the
	// event stream, so they must replay deterministically; a wall-clock
	// or random id would break seed-identical runs.
	rakeSeq int
}

// NewCollectionCoordinator creates the coordinator. strategy must be
// FormWorkshopCapacity or FormRetrofitTrackAllocation.
func NewCollectionCoordinator(yard *Yard, strategy FormationStrategyName, readyQueues map[string]*Store[*Wagon]) *CollectionCoordinator {
	return &CollectionCoordinator{
		yard:        yard,
		strategy:    strategy,
		readyQueues: readyQueues,
		signal:      yard.Sched.NewTrigger(),
	}
}

// Notify wakes the coordinator; called by arrival after placing
// wagons.
func (c *CollectionCoordinator) Notify() {
	c.signal.Fire()
}

// Start spawns the coordinator process.
func (c *CollectionCoordinator) Start() {
	c.yard.Sched.Spawn("collection", func(p *Process) { c.run(p) })
}

func (c *CollectionCoordinator) run(p *Process) {
	y := c.yard
	for {
		worked := c.pass(p)
		if worked {
			continue
		}
		if c.pendingWagons() == 0 {
			// Nothing in the yard: park on the arrival signal so an
			// idle scenario can drain its event queue.
			c.signal = y.Sched.NewTrigger()
			p.Await(c.signal)
			continue
		}
		// Wagons exist but capacity is missing downstream: bounded
		// back-off, re-armed against the signal so a fresh arrival
		// still wakes us early.
		c.signal = y.Sched.NewTrigger()
		timeout := y.Sched.After(y.Config.CollectionPollMinutes)
		if p.AwaitAny(c.signal, timeout.Trigger()) == c.signal {
			timeout.Cancel()
		}
	}
}

// pendingWagons counts wagons waiting on collection tracks.
func (c *CollectionCoordinator) pendingWagons() int {
	n := 0
	for _, trackID := range c.yard.Tracks.TracksOfType(TrackCollection) {
		for _, occ := range c.yard.Tracks.Occupants(trackID) {
			if w, ok := occ.(*Wagon); ok && w.Status() == WagonReadyForRetrofit && !w.Moving() {
				n++
			}
		}
	}
	return n
}

// pass attempts one planning-and-transport round. Returns true if any
// wagons moved.
func (c *CollectionCoordinator) pass(p *Process) bool {
	y := c.yard
	worked := false
	// Plan per collection track: a transport job has a single pickup
	// track.
	for _, trackID := range y.Tracks.TracksOfType(TrackCollection) {
		wagons := c.waitingOn(trackID)
		if len(wagons) == 0 {
			continue
		}
		plans := c.plan(wagons)
		for _, plan := range plans {
			if len(plan.Wagons) == 0 {
				continue
			}
			if !c.targetFits(plan) {
				continue // retry next pass
			}
			if c.transport(p, trackID, plan) {
				worked = true
			}
		}
	}
	return worked
}

// waitingOn returns the ready wagons currently on one collection
// track, in placement order.
func (c *CollectionCoordinator) waitingOn(trackID string) []*Wagon {
	var wagons []*Wagon
	for _, occ := range c.yard.Tracks.Occupants(trackID) {
		if w, ok := occ.(*Wagon); ok && w.Status() == WagonReadyForRetrofit && !w.Moving() {
			wagons = append(wagons, w)
		}
	}
	return wagons
}

// plan runs the configured formation strategy over the wagons with a
// live capacity snapshot.
func (c *CollectionCoordinator) plan(wagons []*Wagon) []RakePlan {
	y := c.yard
	strategy, err := y.Formation.Strategy(c.strategy)
	if err != nil {
		logrus.Errorf("collection: %v", err)
		return nil
	}

	constraints := FormationConstraints{}
	for _, wsID := range y.Workshops.WorkshopIDs() {
		ws := y.Workshops.Workshop(wsID)
		unclaimed := ws.IdleBays() - c.readyQueues[wsID].Len()
		if unclaimed < 0 {
			unclaimed = 0
		}
		constraints.Workshops = append(constraints.Workshops, WorkshopCapacityInfo{
			ID:            wsID,
			Track:         ws.Track(),
			UnclaimedBays: unclaimed,
		})
	}
	for _, trackID := range y.Tracks.TracksOfType(TrackRetrofit) {
		constraints.Tracks = append(constraints.Tracks, TrackCapacityInfo{
			ID:        trackID,
			Available: y.Tracks.Available(trackID),
			Usable:    y.Tracks.Track(trackID).UsableCapacity(),
		})
	}

	plans, err := strategy.FormRakes(wagons, constraints)
	if err != nil {
		logrus.Errorf("collection: forming rakes: %v", err)
		return nil
	}
	return plans
}

// targetFits verifies the plan's destination has room right now. The
// RETROFIT_TRACK_ALLOCATION overflow plans intentionally target a
// full track; they wait here until a later pass finds room.
func (c *CollectionCoordinator) targetFits(plan RakePlan) bool {
	target := c.resolveTarget(plan)
	if target == "" {
		return false
	}
	y := c.yard
	total := plan.Length()
	t := y.Tracks.Track(target)
	if t == nil {
		return false
	}
	if y.Tracks.Occupied(target)+total > t.UsableCapacity() {
		return false
	}
	if t.MaxWagonCount() > 0 && len(y.Tracks.Occupants(target))+len(plan.Wagons) > t.MaxWagonCount() {
		return false
	}
	return true
}

// resolveTarget maps a plan to the retrofit track it stages on. Plans
// from WORKSHOP_CAPACITY carry a workshop track; their staging track
// is the first retrofit track with room for them.
func (c *CollectionCoordinator) resolveTarget(plan RakePlan) string {
	y := c.yard
	retrofit := y.Tracks.TracksOfType(TrackRetrofit)
	if len(retrofit) == 0 {
		return ""
	}
	if c.strategy == FormRetrofitTrackAllocation && plan.TargetTrack != "" {
		return plan.TargetTrack
	}
	for _, id := range retrofit {
		if y.Tracks.CanAdd(id, plan.Length()) {
			return id
		}
	}
	return retrofit[0]
}

// transport seals the plan into a rake, hauls it to retrofit staging
// and distributes the wagons to workshop queues. Returns true on
// success.
func (c *CollectionCoordinator) transport(p *Process, from string, plan RakePlan) bool {
	y := c.yard
	target := c.resolveTarget(plan)

	c.rakeSeq++
	rake, err := NewRake(fmt.Sprintf("rake-%d", c.rakeSeq), plan.Wagons, from, target)
	if err != nil {
		logrus.Errorf("collection: %v", err)
		return false
	}
	y.emit(Event{Kind: EventBatchFormed, Rake: rake.ID(), Track: from,
		Detail: string(c.strategy)})
	if err := rake.BeginTransport(); err != nil {
		logrus.Errorf("collection: %v", err)
		return false
	}

	job := NewTransportJob(y, from, target, rake.Wagons(), rake.ID(), "collection")
	if err := job.Run(p); err != nil {
		// The job returned the wagons to the collection track; dissolve
		// the rake so the next pass can re-plan them.
		logrus.Errorf("collection: transport %s: %v", job.ID(), err)
		if derr := rake.Dissolve(); derr != nil {
			logrus.Errorf("collection: %v", derr)
		}
		return false
	}

	// Staging rakes never enter a bay; dissolve and hand the wagons to
	// the workshop batcher.
	if err := rake.Dissolve(); err != nil {
		logrus.Errorf("collection: %v", err)
	}
	c.distribute(p, plan)
	return true
}

// distribute hands each wagon to the workshop with the most unclaimed
// remaining capacity; first workshop in declaration order wins ties.
func (c *CollectionCoordinator) distribute(p *Process, plan RakePlan) {
	y := c.yard
	for _, w := range plan.Wagons {
		wsID := plan.Workshop
		if wsID == "" {
			wsID = c.mostUnclaimed()
		}
		if wsID == "" {
			// All queues saturated: first workshop takes the backlog.
			wsID = y.Workshops.WorkshopIDs()[0]
		}
		w.setWorkshop(wsID)
		c.readyQueues[wsID].Put(p, w)
	}
}

// mostUnclaimed returns the workshop id with the highest idle-bay
// count net of already-queued wagons.
func (c *CollectionCoordinator) mostUnclaimed() string {
	y := c.yard
	best := ""
	bestUnclaimed := 0
	for _, wsID := range y.Workshops.WorkshopIDs() {
		ws := y.Workshops.Workshop(wsID)
		unclaimed := ws.IdleBays() - c.readyQueues[wsID].Len()
		if unclaimed > bestUnclaimed {
			best, bestUnclaimed = wsID, unclaimed
		}
	}
	return best
}
