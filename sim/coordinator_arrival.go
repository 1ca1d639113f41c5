// The arrival coordinator: one process per scheduled train. Wagons
// are humped over the classification ridge one at a time, classified,
// and either placed on a collection track, left aboard (bypass) or
// rejected when no collection track has room. Rejection is a counted
// business outcome, never retried.

package sim

import (
	"github.com/sirupsen/logrus"
)

// ArrivalCoordinator classifies arriving trains onto collection
// tracks.
type ArrivalCoordinator struct {
	yard     *Yard
	selector *TrackSelector
	// wagonsReady is fired after a train leaves wagons on collection
	// tracks so the collection coordinator can wake early.
	wagonsReady func()
}

// NewArrivalCoordinator creates the coordinator. notify is called
// whenever new wagons landed on collection tracks.
func NewArrivalCoordinator(yard *Yard, selector *TrackSelector, notify func()) *ArrivalCoordinator {
	return &ArrivalCoordinator{yard: yard, selector: selector, wagonsReady: notify}
}

// Start spawns one process per train at its scheduled arrival time.
func (c *ArrivalCoordinator) Start(trains []*Train) {
	for _, tr := range trains {
		tr := tr
		c.yard.Sched.SpawnAt(tr.ArrivalTime(), "arrival/"+tr.ID(), func(p *Process) {
			c.handleTrain(p, tr)
		})
	}
}

// handleTrain runs the classification of one train.
func (c *ArrivalCoordinator) handleTrain(p *Process, tr *Train) {
	y := c.yard
	y.emit(Event{Kind: EventTrainArrived, Train: tr.ID(), Detail: tr.String()})
	logrus.Infof("[t=%8.2f] train %s arrived with %d wagons", p.Now(), tr.ID(), len(tr.Wagons()))

	if err := tr.BeginClassification(); err != nil {
		logrus.Errorf("train %s: %v", tr.ID(), err)
		return
	}

	collection := y.Tracks.TracksOfType(TrackCollection)
	var released []*Wagon
	placed := false

	for _, w := range tr.Wagons() {
		// Humping is per wagon; the process-time table sets the pace.
		p.Sleep(y.Times.HumpPerWagon)

		if err := w.MarkClassified(); err != nil {
			logrus.Errorf("train %s: %v", tr.ID(), err)
			continue
		}
		if !w.NeedsRetrofit() {
			y.emit(Event{Kind: EventWagonClassified, Wagon: w.ID(), Train: tr.ID(), Detail: ClassifyBypass})
			continue
		}

		trackID, ok := y.Tracks.SelectTrack(c.selector, collection, w.Length())
		if !ok {
			// No collection track has room: terminal rejection.
			if err := w.Reject(); err != nil {
				logrus.Errorf("train %s: %v", tr.ID(), err)
				continue
			}
			y.emit(Event{Kind: EventWagonClassified, Wagon: w.ID(), Train: tr.ID(), Detail: ClassifyReject})
			logrus.Infof("[t=%8.2f] wagon %s rejected, collection tracks full", p.Now(), w.ID())
			continue
		}

		if err := y.Tracks.Add(trackID, w); err != nil {
			// SelectTrack just verified capacity; nothing can have
			// interleaved since.
			logrus.Errorf("train %s: placing wagon %s: %v", tr.ID(), w.ID(), err)
			continue
		}
		w.setTrack(trackID)
		if err := w.MarkReadyForRetrofit(); err != nil {
			logrus.Errorf("train %s: %v", tr.ID(), err)
			continue
		}
		y.emit(Event{Kind: EventWagonClassified, Wagon: w.ID(), Train: tr.ID(), Track: trackID, Detail: ClassifyRetrofit})
		released = append(released, w)
		placed = true
	}

	if err := tr.FinishClassification(released); err != nil {
		logrus.Errorf("train %s: %v", tr.ID(), err)
		return
	}
	if err := tr.Depart(); err != nil {
		logrus.Errorf("train %s: %v", tr.ID(), err)
		return
	}
	y.emit(Event{Kind: EventTrainDeparted, Train: tr.ID()})

	if placed && c.wagonsReady != nil {
		c.wagonsReady()
	}
}
