// The workshop coordinator: one process per workshop. It batches
// wagons from its ready queue up to the bay count and the workshop
// track's length, waits for the track and every bay to be idle (one
// batch on the track at a time), hauls the batch in, retrofits, and
// hauls the finished wagons to retrofitted staging.

package sim

import (
	"github.com/sirupsen/logrus"
)

// WorkshopCoordinator drives one workshop's retrofit loop.
type WorkshopCoordinator struct {
	yard     *Yard
	workshop *Workshop
	ready    *Store[*Wagon]
	// staging receives finished wagons for the parking coordinator.
	staging *Store[*Wagon]
}

// NewWorkshopCoordinator creates the coordinator for one workshop.
func NewWorkshopCoordinator(yard *Yard, workshop *Workshop, ready, staging *Store[*Wagon]) *WorkshopCoordinator {
	return &WorkshopCoordinator{yard: yard, workshop: workshop, ready: ready, staging: staging}
}

// Start spawns the coordinator process.
func (c *WorkshopCoordinator) Start() {
	c.yard.Sched.Spawn("workshop/"+c.workshop.ID(), func(p *Process) { c.run(p) })
}

func (c *WorkshopCoordinator) run(p *Process) {
	for {
		batch := c.collectBatch(p)
		c.processBatch(p, batch)
	}
}

// collectBatch blocks for the first wagon, then grabs whatever else is
// already queued, capped by the bay count and by what physically fits
// on the workshop track. A batch the track cannot hold would only fail
// at delivery.
func (c *WorkshopCoordinator) collectBatch(p *Process) []*Wagon {
	budget := c.yard.Tracks.Track(c.workshop.Track()).UsableCapacity()
	first := c.ready.Get(p)
	batch := []*Wagon{first}
	used := first.Length()
	for len(batch) < c.workshop.BayCount() {
		w, ok := c.ready.Peek()
		if !ok || used+w.Length() > budget {
			break
		}
		c.ready.TryGet()
		batch = append(batch, w)
		used += w.Length()
	}
	return batch
}

// barrier holds the process until the workshop track is clear and all
// bays are idle, so batches never overlap on one track.
func (c *WorkshopCoordinator) barrier(p *Process) {
	y := c.yard
	for y.Tracks.Occupied(c.workshop.Track()) > 0 || !c.workshop.AllIdle() {
		p.Sleep(y.Config.CollectionPollMinutes)
	}
}

func (c *WorkshopCoordinator) processBatch(p *Process, batch []*Wagon) {
	y := c.yard
	ws := c.workshop

	c.barrier(p)

	// The batch may sit on more than one retrofit track; each pickup
	// track is its own transport job. A group the track turns out not
	// to hold goes back on the ready queue for a later, smaller batch;
	// the transport has already returned its wagons to the pickup
	// track.
	var moved []*Wagon
	for _, group := range groupByTrack(batch) {
		job := NewTransportJob(y, group.track, ws.Track(), group.wagons, "", "workshop-inbound")
		if err := job.Run(p); err != nil {
			logrus.Errorf("workshop %s: inbound transport: %v", ws.ID(), err)
			for _, w := range group.wagons {
				c.ready.Put(p, w)
			}
			continue
		}
		moved = append(moved, group.wagons...)
	}
	if len(moved) == 0 {
		return
	}
	batch = moved

	// Assign bays and start the retrofit clock. Bay indices are kept
	// for completion.
	bays := make(map[string]int, len(batch))
	for _, w := range batch {
		idx, err := y.Workshops.AssignToBay(ws.ID(), w.ID())
		if err != nil {
			logrus.Errorf("workshop %s: %v", ws.ID(), err)
			continue
		}
		bays[w.ID()] = idx
		if err := w.BeginRetrofit(ws.ID()); err != nil {
			logrus.Errorf("workshop %s: %v", ws.ID(), err)
			continue
		}
		y.emit(Event{Kind: EventRetrofitStarted, Wagon: w.ID(), Workshop: ws.ID(), Track: ws.Track()})
	}

	p.Sleep(ws.RetrofitMinutes())

	for _, w := range batch {
		idx, ok := bays[w.ID()]
		if !ok {
			continue
		}
		if _, err := y.Workshops.CompleteRetrofit(ws.ID(), idx); err != nil {
			logrus.Errorf("workshop %s: %v", ws.ID(), err)
			continue
		}
		if err := w.CompleteRetrofit(); err != nil {
			logrus.Errorf("workshop %s: %v", ws.ID(), err)
			continue
		}
		y.emit(Event{Kind: EventRetrofitCompleted, Wagon: w.ID(), Workshop: ws.ID(), Track: ws.Track()})
		logrus.Infof("[t=%8.2f] wagon %s retrofitted at %s", p.Now(), w.ID(), ws.ID())
	}

	c.haulOut(p, batch)
}

// haulOut moves finished wagons to a retrofitted staging track,
// waiting for room when every staging track is full. The room check
// and the arrival are separated by yields, so a competing workshop can
// land on the chosen track first; a failed delivery leaves the wagons
// back on the workshop track and the loop picks a target again.
func (c *WorkshopCoordinator) haulOut(p *Process, batch []*Wagon) {
	y := c.yard
	ws := c.workshop
	staging := y.Tracks.TracksOfType(TrackRetrofitted)
	if len(staging) == 0 {
		logrus.Errorf("workshop %s: no retrofitted staging track configured", ws.ID())
		return
	}
	var total float64
	for _, w := range batch {
		total += w.Length()
	}
	for {
		target := ""
		for target == "" {
			for _, id := range staging {
				if y.Tracks.CanAdd(id, total) {
					target = id
					break
				}
			}
			if target == "" {
				p.Sleep(y.Config.CollectionPollMinutes)
			}
		}

		job := NewTransportJob(y, ws.Track(), target, batch, "", "workshop-outbound")
		if err := job.Run(p); err != nil {
			logrus.Warnf("workshop %s: outbound transport: %v (retrying)", ws.ID(), err)
			p.Sleep(y.Config.CollectionPollMinutes)
			continue
		}
		break
	}
	for _, w := range batch {
		c.staging.Put(p, w)
	}
}

// trackGroup is a pickup track with the wagons standing on it.
type trackGroup struct {
	track  string
	wagons []*Wagon
}

// groupByTrack splits wagons by their current track, preserving order
// within and across groups.
func groupByTrack(wagons []*Wagon) []trackGroup {
	var groups []trackGroup
	index := make(map[string]int)
	for _, w := range wagons {
		tr := w.Track()
		if i, ok := index[tr]; ok {
			groups[i].wagons = append(groups[i].wagons, w)
			continue
		}
		index[tr] = len(groups)
		groups = append(groups, trackGroup{track: tr, wagons: []*Wagon{w}})
	}
	return groups
}
