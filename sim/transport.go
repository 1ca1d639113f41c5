// TransportJob is the canonical "allocate loco, move, couple, move,
// decouple, release" routine every coordinator uses to move wagons.
// The locomotive is released through a defer, so a failing step can
// never leak it.

package sim

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TransportJob moves a consist of wagons from one track to another.
type TransportJob struct {
	id      string
	yard    *Yard
	from    string
	to      string
	wagons  []*Wagon
	rakeID  string // attached rake id for events, may be ""
	purpose string
}

// NewTransportJob prepares a transport of wagons from one track to
// another. purpose tags the locomotive allocation for analytics.
func NewTransportJob(yard *Yard, from, to string, wagons []*Wagon, rakeID, purpose string) *TransportJob {
	return &TransportJob{
		id:      uuid.NewString(),
		yard:    yard,
		from:    from,
		to:      to,
		wagons:  wagons,
		rakeID:  rakeID,
		purpose: purpose,
	}
}

// ID returns the job id.
func (j *TransportJob) ID() string { return j.id }

// Run executes the canonical sequence on the calling process:
//
//  1. allocate a locomotive (blocks FIFO on the pool)
//  2. move it empty to the pickup track
//  3. couple the wagons (duration from their current couplers)
//  4. lift the wagons off the source track occupancy
//  5. haul to the destination
//  6. decouple and place the wagons on the destination occupancy
//  7. release the locomotive (always, via defer)
//
// When the destination cannot take the consist at arrival, the job
// hauls it back to the pickup track, places it there again and returns
// ErrCapacityExceeded: the caller sees the consist standing where it
// started and decides whether to retry. Wagons never end a failed
// transport off-track.
func (j *TransportJob) Run(p *Process) error {
	y := j.yard
	loco := y.Locos.Allocate(p, j.purpose)
	defer y.Locos.Release(loco)

	y.emit(Event{Kind: EventTransportStarted, Rake: j.rakeID, Track: j.from,
		Locomotive: loco.ID(), Detail: fmt.Sprintf("%s->%s n=%d", j.from, j.to, len(j.wagons))})
	logrus.Debugf("[t=%8.2f] transport %s: %d wagons %s -> %s with %s",
		p.Now(), j.id, len(j.wagons), j.from, j.to, loco.ID())

	// Empty run to the pickup track. Transit itself has no capacity
	// check.
	j.move(p, loco, loco.Track(), j.from)

	// Couple at the wagons' current coupler types.
	loco.setStatus(LocoCoupling)
	p.Sleep(y.Coupling.CoupleDuration(j.wagons))

	// Lift off the source track: atomic, no yields.
	for _, w := range j.wagons {
		y.Tracks.Remove(j.from, w)
		w.setMoving(true)
		w.setTrack("")
	}

	// Haul to the destination.
	j.move(p, loco, j.from, j.to)

	// Decouple, then place: fits are verified for the whole consist
	// before the first placement so a failure leaves nothing half
	// placed.
	loco.setStatus(LocoDecoupling)
	p.Sleep(y.Coupling.DecoupleDuration(j.wagons))
	if err := j.verifyFits(); err != nil {
		j.returnConsist(p, loco)
		return err
	}
	for _, w := range j.wagons {
		if err := y.Tracks.Add(j.to, w); err != nil {
			// verifyFits makes this unreachable; surface it loudly if
			// the accounting ever drifts.
			return fmt.Errorf("transport %s: placing wagon %s: %w", j.id, w.ID(), err)
		}
		w.setTrack(j.to)
		w.setMoving(false)
		y.emit(Event{Kind: EventWagonDelivered, Wagon: w.ID(), Track: j.to, Rake: j.rakeID})
	}

	y.emit(Event{Kind: EventArrivedAtDestination, Rake: j.rakeID, Track: j.to,
		Locomotive: loco.ID(), Detail: fmt.Sprintf("n=%d", len(j.wagons))})
	return nil
}

// returnConsist hauls the wagons back to the pickup track after the
// destination turned out to be full. The consist is re-coupled, moved
// and placed through restore, which tolerates the rare case where a
// competing placement took the freed space while the job was out.
func (j *TransportJob) returnConsist(p *Process, loco *Locomotive) {
	y := j.yard
	logrus.Warnf("[t=%8.2f] transport %s: no room on %s, returning %d wagons to %s",
		p.Now(), j.id, j.to, len(j.wagons), j.from)
	loco.setStatus(LocoCoupling)
	p.Sleep(y.Coupling.CoupleDuration(j.wagons))
	j.move(p, loco, j.to, j.from)
	loco.setStatus(LocoDecoupling)
	p.Sleep(y.Coupling.DecoupleDuration(j.wagons))
	for _, w := range j.wagons {
		y.Tracks.restore(j.from, w)
		w.setTrack(j.from)
		w.setMoving(false)
	}
	y.emit(Event{Kind: EventArrivedAtDestination, Rake: j.rakeID, Track: j.from,
		Locomotive: loco.ID(), Detail: fmt.Sprintf("returned n=%d", len(j.wagons))})
}

// move hauls the locomotive (and whatever is coupled to it) between
// two tracks using the route table.
func (j *TransportJob) move(p *Process, loco *Locomotive, from, to string) {
	y := j.yard
	d := y.Routes.Duration(from, to)
	loco.setStatus(LocoMoving)
	y.emit(Event{Kind: EventLocomotiveMoving, Locomotive: loco.ID(), Track: to,
		Detail: fmt.Sprintf("%s->%s %.1fmin", from, to, d)})
	p.Sleep(d)
	loco.setTrack(to)
}

// verifyFits checks the whole consist against the destination before
// any single wagon is placed.
func (j *TransportJob) verifyFits() error {
	y := j.yard
	var total float64
	for _, w := range j.wagons {
		total += w.Length()
	}
	t := y.Tracks.Track(j.to)
	if t == nil {
		return fmt.Errorf("transport %s: unknown destination track %q", j.id, j.to)
	}
	if y.Tracks.Occupied(j.to)+total > t.UsableCapacity() {
		return fmt.Errorf("transport %s: consist %.1fm does not fit on %s (%.1f/%.1f): %w",
			j.id, total, j.to, y.Tracks.Occupied(j.to), t.UsableCapacity(), ErrCapacityExceeded)
	}
	if t.MaxWagonCount() > 0 && len(y.Tracks.Occupants(j.to))+len(j.wagons) > t.MaxWagonCount() {
		return fmt.Errorf("transport %s: %d wagons exceed max count %d on %s: %w",
			j.id, len(j.wagons), t.MaxWagonCount(), j.to, ErrCapacityExceeded)
	}
	return nil
}
