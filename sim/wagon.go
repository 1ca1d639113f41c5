// Defines the Wagon, the central work item of the yard. A wagon walks
// the status chain ARRIVED → CLASSIFIED → READY_FOR_RETROFIT →
// RETROFITTING → RETROFITTED → PARKED, with REJECTED as the alternate
// terminal reachable only from classification. Every transition
// validates the current status; violations are programming defects,
// not recoverable conditions.

package sim

import "fmt"

// WagonStatus represents the lifecycle state of a wagon.
type WagonStatus string

const (
	WagonArrived          WagonStatus = "ARRIVED"
	WagonClassified       WagonStatus = "CLASSIFIED"
	WagonReadyForRetrofit WagonStatus = "READY_FOR_RETROFIT"
	WagonRetrofitting     WagonStatus = "RETROFITTING"
	WagonRetrofitted      WagonStatus = "RETROFITTED"
	WagonParked           WagonStatus = "PARKED"
	WagonRejected         WagonStatus = "REJECTED"
)

// Wagon models a single wagon. Exactly one coordinator owns a wagon at
// any time; ownership moves with the status transitions, never by
// handing the pointer around.
type Wagon struct {
	id       string
	length   float64
	couplerA CouplerType
	couplerB CouplerType

	needsRetrofit bool

	status WagonStatus
	track  string
	moving bool

	trainID    string
	rakeID     string
	workshopID string
}

// NewWagon creates a wagon in status ARRIVED. Side A is toward the
// head of whatever rake the wagon joins.
func NewWagon(id string, length float64, couplerA, couplerB CouplerType, needsRetrofit bool) *Wagon {
	return &Wagon{
		id:            id,
		length:        length,
		couplerA:      couplerA,
		couplerB:      couplerB,
		needsRetrofit: needsRetrofit,
		status:        WagonArrived,
	}
}

// ID returns the wagon id.
func (w *Wagon) ID() string { return w.id }

// Length returns the wagon length in metres.
func (w *Wagon) Length() float64 { return w.length }

// Track returns the current track id, or "" while in transit.
func (w *Wagon) Track() string { return w.track }

// Status returns the current lifecycle status.
func (w *Wagon) Status() WagonStatus { return w.status }

// CouplerA returns the head-side coupler type.
func (w *Wagon) CouplerA() CouplerType { return w.couplerA }

// CouplerB returns the tail-side coupler type.
func (w *Wagon) CouplerB() CouplerType { return w.couplerB }

// NeedsRetrofit reports whether the wagon still runs screw couplers
// that the yard is expected to replace.
func (w *Wagon) NeedsRetrofit() bool { return w.needsRetrofit }

// TrainID returns the arriving train's id, kept for metrics.
func (w *Wagon) TrainID() string { return w.trainID }

// RakeID returns the id of the rake the wagon belongs to, or "".
func (w *Wagon) RakeID() string { return w.rakeID }

// WorkshopID returns the workshop the wagon is assigned to, or "".
func (w *Wagon) WorkshopID() string { return w.workshopID }

// Moving reports whether the wagon is currently being hauled.
func (w *Wagon) Moving() bool { return w.moving }

// Terminal reports whether the wagon reached a terminal status.
func (w *Wagon) Terminal() bool {
	return w.status == WagonParked || w.status == WagonRejected
}

func (w *Wagon) String() string {
	return fmt.Sprintf("Wagon(%s %s %.1fm %s/%s track=%q)",
		w.id, w.status, w.length, w.couplerA, w.couplerB, w.track)
}

// setTrack and setMoving are transport bookkeeping; they carry no
// lifecycle meaning and are driven by TransportJob and the arrival
// coordinator.
func (w *Wagon) setTrack(track string) { w.track = track }
func (w *Wagon) setMoving(m bool)      { w.moving = m }

func (w *Wagon) setTrain(id string)    { w.trainID = id }
func (w *Wagon) setRake(id string)     { w.rakeID = id }
func (w *Wagon) setWorkshop(id string) { w.workshopID = id }

// guard returns an ErrInvalidTransition unless the wagon is in want.
func (w *Wagon) guard(op string, want WagonStatus) error {
	if w.status != want {
		return fmt.Errorf("%s: wagon %s is %s, want %s: %w", op, w.id, w.status, want, ErrInvalidTransition)
	}
	return nil
}

// MarkClassified records the classification decision.
func (w *Wagon) MarkClassified() error {
	if err := w.guard("MarkClassified", WagonArrived); err != nil {
		return err
	}
	w.status = WagonClassified
	return nil
}

// MarkReadyForRetrofit places the wagon in the retrofit pipeline after
// it has been put on a collection track.
func (w *Wagon) MarkReadyForRetrofit() error {
	if err := w.guard("MarkReadyForRetrofit", WagonClassified); err != nil {
		return err
	}
	w.status = WagonReadyForRetrofit
	return nil
}

// BeginRetrofit ties the wagon to a workshop bay.
func (w *Wagon) BeginRetrofit(workshopID string) error {
	if err := w.guard("BeginRetrofit", WagonReadyForRetrofit); err != nil {
		return err
	}
	w.status = WagonRetrofitting
	w.workshopID = workshopID
	return nil
}

// CompleteRetrofit swaps both couplers to DAC in one step. Later
// decoupling of the same wagon therefore uses the faster DAC time.
func (w *Wagon) CompleteRetrofit() error {
	if err := w.guard("CompleteRetrofit", WagonRetrofitting); err != nil {
		return err
	}
	w.status = WagonRetrofitted
	w.couplerA = CouplerDAC
	w.couplerB = CouplerDAC
	w.needsRetrofit = false
	return nil
}

// MarkParked is the normal terminal transition.
func (w *Wagon) MarkParked() error {
	if err := w.guard("MarkParked", WagonRetrofitted); err != nil {
		return err
	}
	w.status = WagonParked
	return nil
}

// Reject is the alternate terminal, reachable only from the
// classification step when no collection track has capacity. Rejected
// wagons are counted, never retried.
func (w *Wagon) Reject() error {
	if err := w.guard("Reject", WagonClassified); err != nil {
		return err
	}
	w.status = WagonRejected
	return nil
}
