package sim

// ProcessTimes is the scenario's process-time table: fixed durations
// for the yard's manual and automatic operations, in minutes.
type ProcessTimes struct {
	CoupleScrew  float64 // per connection, screw coupling
	CoupleDAC    float64 // per connection, DAC coupling
	CoupleHybrid float64 // per connection when hybrid governs

	DecoupleScrew  float64
	DecoupleDAC    float64
	DecoupleHybrid float64

	HumpPerWagon float64 // classification time per wagon on arrival
}

// DefaultProcessTimes returns the stock process-time table. Screw
// work is manual and slow; DAC connects in a fraction of the time.
func DefaultProcessTimes() ProcessTimes {
	return ProcessTimes{
		CoupleScrew:    3.0,
		CoupleDAC:      0.5,
		CoupleHybrid:   3.0,
		DecoupleScrew:  2.0,
		DecoupleDAC:    0.5,
		DecoupleHybrid: 2.0,
		HumpPerWagon:   1.0,
	}
}

// CoupleMinutes returns the per-connection coupling time for the
// governing coupler type.
func (pt ProcessTimes) CoupleMinutes(c CouplerType) float64 {
	switch c {
	case CouplerDAC:
		return pt.CoupleDAC
	case CouplerHybrid:
		return pt.CoupleHybrid
	default:
		return pt.CoupleScrew
	}
}

// DecoupleMinutes returns the per-connection decoupling time for the
// governing coupler type.
func (pt ProcessTimes) DecoupleMinutes(c CouplerType) float64 {
	switch c {
	case CouplerDAC:
		return pt.DecoupleDAC
	case CouplerHybrid:
		return pt.DecoupleHybrid
	default:
		return pt.DecoupleScrew
	}
}

// ParkingMode selects how the parking coordinator batches wagons off
// the retrofitted-staging store.
type ParkingMode string

const (
	// ParkingOpportunistic grabs whatever is staged, up to the batch
	// limit, as soon as anything is available.
	ParkingOpportunistic ParkingMode = "OPPORTUNISTIC"
	// ParkingSmartAccumulation waits until staging occupancy crosses
	// AccumulationThreshold, escalating to immediate dispatch past
	// CriticalThreshold so upstream is never blocked for long.
	ParkingSmartAccumulation ParkingMode = "SMART_ACCUMULATION"
)

// CoordinatorConfig groups the coordinators' tunables.
type CoordinatorConfig struct {
	// CollectionPollMinutes is the back-off delay when the collection
	// coordinator finds nothing ready.
	CollectionPollMinutes float64

	ParkingMode ParkingMode
	// ParkingBatchSize caps how many wagons one parking run hauls.
	ParkingBatchSize int
	// AccumulationThreshold is the staging count that triggers a smart
	// accumulation dispatch.
	AccumulationThreshold int
	// CriticalThreshold forces immediate dispatch regardless of batch
	// shape once staging occupancy reaches it.
	CriticalThreshold int
	// ParkingPollMinutes is the parking coordinator's re-check delay
	// while accumulating.
	ParkingPollMinutes float64
}

// DefaultCoordinatorConfig returns the stock coordinator tunables.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		CollectionPollMinutes: 5.0,
		ParkingMode:           ParkingOpportunistic,
		ParkingBatchSize:      5,
		AccumulationThreshold: 3,
		CriticalThreshold:     8,
		ParkingPollMinutes:    5.0,
	}
}
