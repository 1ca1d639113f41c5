// Defines the Track, a fixed piece of yard infrastructure. Occupancy
// bookkeeping lives in the TrackCapacityManager; the Track itself is
// immutable configuration.

package sim

// TrackType classifies what a track is used for.
type TrackType string

const (
	TrackParking     TrackType = "PARKING"
	TrackCollection  TrackType = "COLLECTION"
	TrackRetrofit    TrackType = "RETROFIT"
	TrackWorkshop    TrackType = "WORKSHOP"
	TrackRetrofitted TrackType = "RETROFITTED"
)

// DefaultFillFactor is the usable fraction of a track's physical
// length; the rest is operational buffer.
const DefaultFillFactor = 0.75

// Track is one yard track.
type Track struct {
	id          string
	trackType   TrackType
	totalLength float64
	fillFactor  float64
	// maxWagonCount additionally bounds the occupant count when > 0.
	maxWagonCount int
}

// NewTrack creates a track. A fillFactor <= 0 falls back to the
// default 0.75.
func NewTrack(id string, trackType TrackType, totalLength, fillFactor float64, maxWagonCount int) *Track {
	if fillFactor <= 0 {
		fillFactor = DefaultFillFactor
	}
	return &Track{
		id:            id,
		trackType:     trackType,
		totalLength:   totalLength,
		fillFactor:    fillFactor,
		maxWagonCount: maxWagonCount,
	}
}

// ID returns the track id.
func (t *Track) ID() string { return t.id }

// Type returns the track type.
func (t *Track) Type() TrackType { return t.trackType }

// TotalLength returns the physical length in metres.
func (t *Track) TotalLength() float64 { return t.totalLength }

// FillFactor returns the usable fraction of the physical length.
func (t *Track) FillFactor() float64 { return t.fillFactor }

// UsableCapacity returns totalLength x fillFactor in metres.
func (t *Track) UsableCapacity() float64 { return t.totalLength * t.fillFactor }

// MaxWagonCount returns the occupant-count bound, 0 = unbounded.
func (t *Track) MaxWagonCount() int { return t.maxWagonCount }
