// Rake-formation strategies: pure planning functions from (wagons,
// constraints) to rake plans. Strategies never consult live simulation
// time and never mutate capacity; coordinators seal the plans into
// rakes and do the moving. The registry is built once at scenario
// build time and passed down — nothing is looked up from ambient
// state.

package sim

import (
	"fmt"
)

// FormationStrategyName names a registered formation strategy.
type FormationStrategyName string

const (
	FormFixedSize               FormationStrategyName = "FIXED_SIZE"
	FormTrackCapacity           FormationStrategyName = "TRACK_CAPACITY"
	FormWorkshopCapacity        FormationStrategyName = "WORKSHOP_CAPACITY"
	FormRetrofitTrackAllocation FormationStrategyName = "RETROFIT_TRACK_ALLOCATION"
)

// WorkshopCapacityInfo is a planning snapshot of one workshop.
type WorkshopCapacityInfo struct {
	ID    string
	Track string
	// UnclaimedBays is the nominal bay capacity minus capacity already
	// claimed by rakes formed earlier in the same planning pass.
	UnclaimedBays int
}

// TrackCapacityInfo is a planning snapshot of one track.
type TrackCapacityInfo struct {
	ID string
	// Available is the remaining usable length in metres.
	Available float64
	// Usable is the track's nominal usable capacity in metres.
	Usable float64
}

// FormationConstraints parameterizes a formation pass. Only the fields
// a strategy documents are consulted.
type FormationConstraints struct {
	FixedSize    int                    // FIXED_SIZE: wagons per rake
	LengthBudget float64                // TRACK_CAPACITY: metres per rake
	Workshops    []WorkshopCapacityInfo // WORKSHOP_CAPACITY: planning snapshot
	Tracks       []TrackCapacityInfo    // RETROFIT_TRACK_ALLOCATION: planning snapshot
}

// RakePlan is one planned rake: a couplable wagon order and where it
// should go. Plans are sealed into Rakes by the coordinator.
type RakePlan struct {
	Wagons      []*Wagon
	TargetTrack string
	Workshop    string // set by WORKSHOP_CAPACITY plans
}

// Length returns the summed wagon length of the plan.
func (rp RakePlan) Length() float64 {
	var sum float64
	for _, w := range rp.Wagons {
		sum += w.Length()
	}
	return sum
}

// RakeFormationStrategy groups wagons into rake plans.
type RakeFormationStrategy interface {
	FormRakes(wagons []*Wagon, c FormationConstraints) ([]RakePlan, error)
}

// FormationRegistry maps strategy names to implementations. Built once
// at scenario build time.
type FormationRegistry map[FormationStrategyName]RakeFormationStrategy

// NewFormationRegistry returns a registry with all four stock
// strategies.
func NewFormationRegistry() FormationRegistry {
	return FormationRegistry{
		FormFixedSize:               FixedSizeStrategy{},
		FormTrackCapacity:           TrackCapacityStrategy{},
		FormWorkshopCapacity:        WorkshopCapacityStrategy{},
		FormRetrofitTrackAllocation: RetrofitTrackAllocationStrategy{},
	}
}

// Strategy looks up a strategy by name.
func (r FormationRegistry) Strategy(name FormationStrategyName) (RakeFormationStrategy, error) {
	s, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown formation strategy %q", name)
	}
	return s, nil
}

// splitCompatible cuts the wagon sequence at every incompatible
// coupler boundary so each returned run is couplable as-is. Order is
// preserved.
func splitCompatible(wagons []*Wagon) [][]*Wagon {
	var runs [][]*Wagon
	var run []*Wagon
	for _, w := range wagons {
		if len(run) > 0 && !CanCoupleWagons(run[len(run)-1], w) {
			runs = append(runs, run)
			run = nil
		}
		run = append(run, w)
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

// FixedSizeStrategy chunks wagons into rakes of at most FixedSize,
// splitting additionally at incompatible coupler boundaries.
type FixedSizeStrategy struct{}

// FormRakes implements RakeFormationStrategy.
func (FixedSizeStrategy) FormRakes(wagons []*Wagon, c FormationConstraints) ([]RakePlan, error) {
	if c.FixedSize <= 0 {
		return nil, fmt.Errorf("FIXED_SIZE: size must be positive, got %d", c.FixedSize)
	}
	var plans []RakePlan
	for _, run := range splitCompatible(wagons) {
		for len(run) > 0 {
			n := min(c.FixedSize, len(run))
			plans = append(plans, RakePlan{Wagons: run[:n]})
			run = run[n:]
		}
	}
	return plans, nil
}

// TrackCapacityStrategy greedy-fills rakes up to a length budget,
// starting a new rake on overflow.
type TrackCapacityStrategy struct{}

// FormRakes implements RakeFormationStrategy.
func (TrackCapacityStrategy) FormRakes(wagons []*Wagon, c FormationConstraints) ([]RakePlan, error) {
	if c.LengthBudget <= 0 {
		return nil, fmt.Errorf("TRACK_CAPACITY: length budget must be positive, got %.1f", c.LengthBudget)
	}
	var plans []RakePlan
	for _, run := range splitCompatible(wagons) {
		var cur []*Wagon
		var curLen float64
		for _, w := range run {
			if len(cur) > 0 && curLen+w.Length() > c.LengthBudget {
				plans = append(plans, RakePlan{Wagons: cur})
				cur, curLen = nil, 0
			}
			cur = append(cur, w)
			curLen += w.Length()
		}
		if len(cur) > 0 {
			plans = append(plans, RakePlan{Wagons: cur})
		}
	}
	return plans, nil
}

// WorkshopCapacityStrategy assigns each wagon to the workshop with the
// most unclaimed remaining capacity. Claims accumulate within the
// pass, preventing a single planning pass from overcommitting one
// workshop; ties go to the first workshop in the candidate list.
// Wagons beyond the total unclaimed capacity are left unplanned —
// fewer wagons out than in is the expected capacity-rejection
// outcome, not an error.
type WorkshopCapacityStrategy struct{}

// FormRakes implements RakeFormationStrategy.
func (WorkshopCapacityStrategy) FormRakes(wagons []*Wagon, c FormationConstraints) ([]RakePlan, error) {
	if len(c.Workshops) == 0 {
		return nil, fmt.Errorf("WORKSHOP_CAPACITY: no workshops in constraints")
	}
	unclaimed := make([]int, len(c.Workshops))
	for i, ws := range c.Workshops {
		unclaimed[i] = ws.UnclaimedBays
	}
	assigned := make([][]*Wagon, len(c.Workshops))
	for _, w := range wagons {
		best := -1
		for i := range c.Workshops {
			if unclaimed[i] <= 0 {
				continue
			}
			if best == -1 || unclaimed[i] > unclaimed[best] {
				best = i
			}
		}
		if best == -1 {
			break // all capacity claimed this pass
		}
		assigned[best] = append(assigned[best], w)
		unclaimed[best]--
	}
	var plans []RakePlan
	for i, ws := range c.Workshops {
		for _, run := range splitCompatible(assigned[i]) {
			plans = append(plans, RakePlan{Wagons: run, TargetTrack: ws.Track, Workshop: ws.ID})
		}
	}
	return plans, nil
}

// RetrofitTrackAllocationStrategy distributes wagons across multiple
// same-type tracks by available length. Each wagon claims space on the
// candidate track with the most unclaimed room that still fits it;
// wagons that fit nowhere overflow to the track with the highest
// nominal capacity, where the caller is expected to wait for room.
type RetrofitTrackAllocationStrategy struct{}

// FormRakes implements RakeFormationStrategy.
func (RetrofitTrackAllocationStrategy) FormRakes(wagons []*Wagon, c FormationConstraints) ([]RakePlan, error) {
	if len(c.Tracks) == 0 {
		return nil, fmt.Errorf("RETROFIT_TRACK_ALLOCATION: no tracks in constraints")
	}
	remaining := make([]float64, len(c.Tracks))
	for i, t := range c.Tracks {
		remaining[i] = t.Available
	}
	// Overflow goes to the highest-capacity track; first wins ties.
	overflowIdx := 0
	for i, t := range c.Tracks {
		if t.Usable > c.Tracks[overflowIdx].Usable {
			overflowIdx = i
		}
	}
	assigned := make([][]*Wagon, len(c.Tracks))
	for _, w := range wagons {
		best := -1
		for i := range c.Tracks {
			if remaining[i] < w.Length() {
				continue
			}
			if best == -1 || remaining[i] > remaining[best] {
				best = i
			}
		}
		if best == -1 {
			best = overflowIdx
		}
		assigned[best] = append(assigned[best], w)
		remaining[best] -= w.Length()
	}
	var plans []RakePlan
	for i, t := range c.Tracks {
		for _, run := range splitCompatible(assigned[i]) {
			plans = append(plans, RakePlan{Wagons: run, TargetTrack: t.ID})
		}
	}
	return plans, nil
}
