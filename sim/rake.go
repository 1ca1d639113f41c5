// Defines the Rake, a coupled consist moved as one unit. Membership is
// fixed at formation time — every adjacent pair was compatibility-
// checked then — and stays immutable until the rake dissolves.

package sim

import "fmt"

// RakeStatus represents the lifecycle state of a rake.
type RakeStatus string

const (
	RakeFormed      RakeStatus = "FORMED"
	RakeInTransport RakeStatus = "IN_TRANSPORT"
	RakeAtWorkshop  RakeStatus = "AT_WORKSHOP"
	RakeProcessing  RakeStatus = "PROCESSING"
	RakeCompleted   RakeStatus = "COMPLETED"
)

// Rake is an ordered, immutable consist of wagons.
type Rake struct {
	id             string
	wagons         []*Wagon
	formationTrack string
	targetTrack    string
	status         RakeStatus
}

// NewRake seals the given wagon order into a rake. The caller is
// expected to have verified coupler compatibility via CanFormRake;
// NewRake re-checks and fails on violation because a malformed rake
// must never enter transport.
func NewRake(id string, wagons []*Wagon, formationTrack, targetTrack string) (*Rake, error) {
	if err := CanFormRake(wagons); err != nil {
		return nil, fmt.Errorf("forming rake %s: %w", id, err)
	}
	sealed := make([]*Wagon, len(wagons))
	copy(sealed, wagons)
	for _, w := range sealed {
		w.setRake(id)
	}
	return &Rake{
		id:             id,
		wagons:         sealed,
		formationTrack: formationTrack,
		targetTrack:    targetTrack,
		status:         RakeFormed,
	}, nil
}

// ID returns the rake id.
func (r *Rake) ID() string { return r.id }

// Length returns the summed wagon length in metres.
func (r *Rake) Length() float64 {
	var sum float64
	for _, w := range r.wagons {
		sum += w.Length()
	}
	return sum
}

// Track returns the track the rake currently sits on, taken from its
// head wagon ("" while in transit).
func (r *Rake) Track() string {
	if len(r.wagons) == 0 {
		return ""
	}
	return r.wagons[0].Track()
}

// Wagons returns the sealed wagon order. Callers must not mutate the
// returned slice.
func (r *Rake) Wagons() []*Wagon { return r.wagons }

// WagonIDs returns the ordered wagon ids.
func (r *Rake) WagonIDs() []string {
	ids := make([]string, len(r.wagons))
	for i, w := range r.wagons {
		ids[i] = w.ID()
	}
	return ids
}

// Size returns the number of wagons.
func (r *Rake) Size() int { return len(r.wagons) }

// FormationTrack returns the track the rake was formed on.
func (r *Rake) FormationTrack() string { return r.formationTrack }

// TargetTrack returns the track the rake is headed to.
func (r *Rake) TargetTrack() string { return r.targetTrack }

// Status returns the current lifecycle status.
func (r *Rake) Status() RakeStatus { return r.status }

func (r *Rake) String() string {
	return fmt.Sprintf("Rake(%s %s, %d wagons, %.1fm, %s->%s)",
		r.id, r.status, len(r.wagons), r.Length(), r.formationTrack, r.targetTrack)
}

func (r *Rake) guard(op string, want RakeStatus) error {
	if r.status != want {
		return fmt.Errorf("%s: rake %s is %s, want %s: %w", op, r.id, r.status, want, ErrInvalidTransition)
	}
	return nil
}

// BeginTransport marks the rake as being hauled to its target.
func (r *Rake) BeginTransport() error {
	if err := r.guard("BeginTransport", RakeFormed); err != nil {
		return err
	}
	r.status = RakeInTransport
	return nil
}

// ArriveAtWorkshop marks arrival at the workshop track.
func (r *Rake) ArriveAtWorkshop() error {
	if err := r.guard("ArriveAtWorkshop", RakeInTransport); err != nil {
		return err
	}
	r.status = RakeAtWorkshop
	return nil
}

// BeginProcessing marks the rake's wagons as in the bays.
func (r *Rake) BeginProcessing() error {
	if err := r.guard("BeginProcessing", RakeAtWorkshop); err != nil {
		return err
	}
	r.status = RakeProcessing
	return nil
}

// Complete dissolves the rake after processing: the terminal
// transition. Wagons lose their rake membership.
func (r *Rake) Complete() error {
	if err := r.guard("Complete", RakeProcessing); err != nil {
		return err
	}
	r.dissolve()
	return nil
}

// Dissolve ends a rake that was only a transport consist (a staging
// rake never enters a bay). Valid from any non-terminal status.
func (r *Rake) Dissolve() error {
	if r.status == RakeCompleted {
		return fmt.Errorf("Dissolve: rake %s already COMPLETED: %w", r.id, ErrInvalidTransition)
	}
	r.dissolve()
	return nil
}

func (r *Rake) dissolve() {
	r.status = RakeCompleted
	for _, w := range r.wagons {
		w.setRake("")
	}
}
