// Defines the shunting Locomotive. Locomotives are shared resources:
// the LocomotivePool is the sole allocator, and a locomotive's status
// reflects what its current holder is doing with it.

package sim

import "fmt"

// LocomotiveStatus describes what a locomotive is doing right now.
// There is no lifecycle chain; any status may follow any other.
type LocomotiveStatus string

const (
	LocoParking    LocomotiveStatus = "PARKING"
	LocoMoving     LocomotiveStatus = "MOVING"
	LocoCoupling   LocomotiveStatus = "COUPLING"
	LocoDecoupling LocomotiveStatus = "DECOUPLING"
)

// Locomotive is one shunting unit of the yard.
type Locomotive struct {
	id           string
	homeTrack    string
	couplerFront CouplerType
	couplerBack  CouplerType

	status LocomotiveStatus
	track  string
}

// NewLocomotive creates a locomotive parked on its home track.
func NewLocomotive(id, homeTrack string, front, back CouplerType) *Locomotive {
	return &Locomotive{
		id:           id,
		homeTrack:    homeTrack,
		couplerFront: front,
		couplerBack:  back,
		status:       LocoParking,
		track:        homeTrack,
	}
}

// ID returns the locomotive id.
func (l *Locomotive) ID() string { return l.id }

// HomeTrack returns the track the locomotive idles on.
func (l *Locomotive) HomeTrack() string { return l.homeTrack }

// Track returns the track the locomotive is currently at.
func (l *Locomotive) Track() string { return l.track }

// Status returns the current activity status.
func (l *Locomotive) Status() LocomotiveStatus { return l.status }

// CouplerFront returns the front coupler type.
func (l *Locomotive) CouplerFront() CouplerType { return l.couplerFront }

// CouplerBack returns the back coupler type.
func (l *Locomotive) CouplerBack() CouplerType { return l.couplerBack }

func (l *Locomotive) String() string {
	return fmt.Sprintf("Loco(%s %s at %q)", l.id, l.status, l.track)
}

func (l *Locomotive) setStatus(s LocomotiveStatus) { l.status = s }
func (l *Locomotive) setTrack(track string)        { l.track = track }
