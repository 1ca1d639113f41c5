// Coupler-compatibility rules and coupling/decoupling durations.
// Compatibility is a fixed physical property; durations come from the
// scenario's process-time table.

package sim

import "fmt"

// couplerCompatible maps coupler pairs that can physically connect.
// SCREW and DAC never mate; HYBRID mates with everything.
var couplerCompatible = map[CouplerType]map[CouplerType]bool{
	CouplerScrew:  {CouplerScrew: true, CouplerHybrid: true},
	CouplerDAC:    {CouplerDAC: true, CouplerHybrid: true},
	CouplerHybrid: {CouplerScrew: true, CouplerDAC: true, CouplerHybrid: true},
}

// CanCouple reports whether couplers c1 and c2 can connect.
func CanCouple(c1, c2 CouplerType) bool {
	return couplerCompatible[c1][c2]
}

// CanCoupleWagons checks the tail coupler of head against the head
// coupler of tail. Rakes have a defined orientation, so the check is
// wagon1.couplerB against wagon2.couplerA.
func CanCoupleWagons(head, tail *Wagon) bool {
	return CanCouple(head.CouplerB(), tail.CouplerA())
}

// CanFormRake verifies that the given wagon order forms a couplable
// consist. An empty rake is explicitly invalid; a single wagon is
// trivially valid; for n >= 2 every adjacent pair must be compatible.
// The first incompatible pair short-circuits with a descriptive
// reason.
func CanFormRake(wagons []*Wagon) error {
	if len(wagons) == 0 {
		return fmt.Errorf("empty rake: %w", ErrIncompatibleCouplers)
	}
	for i := 0; i < len(wagons)-1; i++ {
		head, tail := wagons[i], wagons[i+1]
		if !CanCoupleWagons(head, tail) {
			return fmt.Errorf("wagon %s (coupler B %s) cannot couple to wagon %s (coupler A %s): %w",
				head.ID(), head.CouplerB(), tail.ID(), tail.CouplerA(), ErrIncompatibleCouplers)
		}
	}
	return nil
}

// CouplingService computes coupling and decoupling durations for
// rakes from the scenario's process-time table.
type CouplingService struct {
	times ProcessTimes
}

// NewCouplingService returns a service using the given process times.
func NewCouplingService(times ProcessTimes) *CouplingService {
	return &CouplingService{times: times}
}

// dominantCoupler returns the coupler type that governs the duration
// of an operation on the consist: the slowest type present among the
// wagons' current couplers. SCREW dominates HYBRID dominates DAC.
func dominantCoupler(wagons []*Wagon) CouplerType {
	dominant := CouplerDAC
	rank := map[CouplerType]int{CouplerDAC: 0, CouplerHybrid: 1, CouplerScrew: 2}
	for _, w := range wagons {
		for _, c := range []CouplerType{w.CouplerA(), w.CouplerB()} {
			if rank[c] > rank[dominant] {
				dominant = c
			}
		}
	}
	return dominant
}

// CoupleDuration returns the minutes needed to couple the consist:
// (n-1) internal connections at the dominant coupler's per-coupling
// time.
func (cs *CouplingService) CoupleDuration(wagons []*Wagon) float64 {
	return connectionCount(wagons) * cs.times.CoupleMinutes(dominantCoupler(wagons))
}

// DecoupleDuration returns the minutes needed to decouple the consist,
// using the wagons' current coupler types. After retrofit the same
// wagons therefore decouple at the faster DAC time.
func (cs *CouplingService) DecoupleDuration(wagons []*Wagon) float64 {
	return connectionCount(wagons) * cs.times.DecoupleMinutes(dominantCoupler(wagons))
}

func connectionCount(wagons []*Wagon) float64 {
	if len(wagons) <= 1 {
		return 0
	}
	return float64(len(wagons) - 1)
}
