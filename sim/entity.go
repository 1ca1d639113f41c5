// Shared entity vocabulary: coupler types and the small capability
// interface the capacity managers depend on. Managers never see
// concrete entities, only Trackable.

package sim

// CouplerType identifies the coupler fitted to one end of a wagon or
// locomotive.
type CouplerType string

const (
	CouplerScrew  CouplerType = "SCREW"
	CouplerDAC    CouplerType = "DAC"
	CouplerHybrid CouplerType = "HYBRID"
)

// Trackable is the capability set a track occupant must expose.
// Wagons and rakes both implement it.
type Trackable interface {
	// ID returns the occupant's unique identifier.
	ID() string
	// Length returns the occupant's physical length in metres.
	Length() float64
	// Track returns the id of the track the occupant currently sits
	// on, or "" while in transit.
	Track() string
}
