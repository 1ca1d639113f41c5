// Defines the arriving Train. A train owns its wagons only until
// classification completes; afterwards the yard owns them and the
// train is an empty shell waiting to depart.

package sim

import "fmt"

// TrainStatus represents the lifecycle state of a train.
type TrainStatus string

const (
	TrainArriving    TrainStatus = "ARRIVING"
	TrainClassifying TrainStatus = "CLASSIFYING"
	TrainClassified  TrainStatus = "CLASSIFIED"
	TrainDeparted    TrainStatus = "DEPARTED"
)

// Train is one scheduled arrival with its consist.
type Train struct {
	id          string
	arrivalTime float64
	wagons      []*Wagon
	status      TrainStatus
}

// NewTrain creates a train in status ARRIVING and stamps its id onto
// every wagon.
func NewTrain(id string, arrivalTime float64, wagons []*Wagon) *Train {
	for _, w := range wagons {
		w.setTrain(id)
	}
	return &Train{
		id:          id,
		arrivalTime: arrivalTime,
		wagons:      wagons,
		status:      TrainArriving,
	}
}

// ID returns the train id.
func (t *Train) ID() string { return t.id }

// ArrivalTime returns the scheduled arrival time in minutes.
func (t *Train) ArrivalTime() float64 { return t.arrivalTime }

// Status returns the current lifecycle status.
func (t *Train) Status() TrainStatus { return t.status }

// Wagons returns the wagons the train still owns.
func (t *Train) Wagons() []*Wagon { return t.wagons }

func (t *Train) String() string {
	return fmt.Sprintf("Train(%s %s, %d wagons, arr=%.1f)", t.id, t.status, len(t.wagons), t.arrivalTime)
}

func (t *Train) guard(op string, want TrainStatus) error {
	if t.status != want {
		return fmt.Errorf("%s: train %s is %s, want %s: %w", op, t.id, t.status, want, ErrInvalidTransition)
	}
	return nil
}

// BeginClassification marks the train as being humped/classified.
func (t *Train) BeginClassification() error {
	if err := t.guard("BeginClassification", TrainArriving); err != nil {
		return err
	}
	t.status = TrainClassifying
	return nil
}

// FinishClassification transfers wagon ownership to the yard and
// returns the wagons that left the train. Wagons that stay aboard
// (bypass and rejected ones) depart with the shell.
func (t *Train) FinishClassification(released []*Wagon) error {
	if err := t.guard("FinishClassification", TrainClassifying); err != nil {
		return err
	}
	releasedIDs := make(map[string]bool, len(released))
	for _, w := range released {
		releasedIDs[w.ID()] = true
	}
	remaining := t.wagons[:0]
	for _, w := range t.wagons {
		if !releasedIDs[w.ID()] {
			remaining = append(remaining, w)
		}
	}
	t.wagons = remaining
	t.status = TrainClassified
	return nil
}

// Depart is the terminal transition.
func (t *Train) Depart() error {
	if err := t.guard("Depart", TrainClassified); err != nil {
		return err
	}
	t.status = TrainDeparted
	return nil
}
