// The parking coordinator: drains the retrofitted-staging store and
// hauls batches to parking tracks, where wagons reach their terminal
// status. Two batching modes: opportunistic grab-and-go, and smart
// accumulation with a dispatch threshold and a critical escalation so
// upstream staging never stays blocked.

package sim

import (
	"github.com/sirupsen/logrus"
)

// ParkingCoordinator finishes the wagon lifecycle.
type ParkingCoordinator struct {
	yard     *Yard
	staging  *Store[*Wagon]
	selector *TrackSelector
}

// NewParkingCoordinator creates the coordinator.
func NewParkingCoordinator(yard *Yard, staging *Store[*Wagon], selector *TrackSelector) *ParkingCoordinator {
	return &ParkingCoordinator{yard: yard, staging: staging, selector: selector}
}

// Start spawns the coordinator process.
func (c *ParkingCoordinator) Start() {
	c.yard.Sched.Spawn("parking", func(p *Process) { c.run(p) })
}

func (c *ParkingCoordinator) run(p *Process) {
	for {
		var batch []*Wagon
		if c.yard.Config.ParkingMode == ParkingSmartAccumulation {
			batch = c.accumulate(p)
		} else {
			batch = c.grabAndGo(p)
		}
		c.park(p, batch)
	}
}

// grabAndGo blocks for the first staged wagon and takes whatever else
// is already there, up to the batch limit.
func (c *ParkingCoordinator) grabAndGo(p *Process) []*Wagon {
	batch := []*Wagon{c.staging.Get(p)}
	for len(batch) < c.yard.Config.ParkingBatchSize {
		w, ok := c.staging.TryGet()
		if !ok {
			break
		}
		batch = append(batch, w)
	}
	return batch
}

// accumulate waits until the staged count crosses the accumulation
// threshold before dispatching; a wait in which nothing new arrived
// dispatches what is held so a trickle of wagons cannot stall the
// tail of a run. Crossing the critical threshold lifts the batch cap.
func (c *ParkingCoordinator) accumulate(p *Process) []*Wagon {
	cfg := c.yard.Config
	batch := []*Wagon{c.staging.Get(p)}
	for len(batch)+c.staging.Len() < cfg.AccumulationThreshold {
		before := c.staging.Len()
		timeout := c.yard.Sched.After(cfg.ParkingPollMinutes)
		winner := p.AwaitAny(c.staging.Notify().NextTrigger(), timeout.Trigger())
		if winner != timeout.Trigger() {
			timeout.Cancel()
		}
		if c.staging.Len() == before {
			break // nothing new arrived, dispatch what we have
		}
	}
	// Past the critical threshold the batch cap no longer applies:
	// staging is drained whole so upstream haul-outs unblock.
	limit := cfg.ParkingBatchSize
	if held := len(batch) + c.staging.Len(); held >= cfg.CriticalThreshold {
		limit = held
	}
	for len(batch) < limit {
		w, ok := c.staging.TryGet()
		if !ok {
			break
		}
		batch = append(batch, w)
	}
	return batch
}

// park selects a parking track with room and hauls the batch there.
// When every parking track is full the coordinator backs off and
// retries; wagons wait on staging occupancy in the meantime.
func (c *ParkingCoordinator) park(p *Process, batch []*Wagon) {
	y := c.yard
	parking := y.Tracks.TracksOfType(TrackParking)
	if len(parking) == 0 {
		logrus.Errorf("parking: no parking track configured")
		return
	}
	var total float64
	for _, w := range batch {
		total += w.Length()
	}

	target := ""
	for target == "" {
		id, ok := y.Tracks.SelectTrack(c.selector, parking, total)
		if ok {
			target = id
			break
		}
		p.Sleep(y.Config.ParkingPollMinutes)
	}

	for _, group := range groupByTrack(batch) {
		job := NewTransportJob(y, group.track, target, group.wagons, "", "parking")
		if err := job.Run(p); err != nil {
			logrus.Errorf("parking: transport: %v", err)
			return
		}
	}

	for _, w := range batch {
		if err := w.MarkParked(); err != nil {
			logrus.Errorf("parking: %v", err)
			continue
		}
		y.emit(Event{Kind: EventWagonParked, Wagon: w.ID(), Track: target})
		logrus.Infof("[t=%8.2f] wagon %s parked on %s", p.Now(), w.ID(), target)
	}
}
