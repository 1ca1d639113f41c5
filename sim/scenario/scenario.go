// Package scenario defines the validated configuration value object
// the simulation core consumes: tracks, routes, workshops,
// locomotives, trains and the process-time table. The core requires
// this shape only — where it came from (YAML here) is the loader's
// business, and no loader internals leak past this package.
package scenario

// Coupler type names accepted by the loader. Mirrored by the core's
// typed constants; kept as strings here so the package stays free of
// core imports.
const (
	CouplerScrew  = "SCREW"
	CouplerDAC    = "DAC"
	CouplerHybrid = "HYBRID"
)

// Track type names accepted by the loader.
var TrackTypes = map[string]bool{
	"PARKING":     true,
	"COLLECTION":  true,
	"RETROFIT":    true,
	"WORKSHOP":    true,
	"RETROFITTED": true,
}

// Scenario is the top-level configuration for one simulation run.
// Loaded from YAML via Load(path); Validate must pass before the core
// accepts it.
type Scenario struct {
	Name string `yaml:"name"`
	Seed int64  `yaml:"seed"`

	Tracks      []TrackSpec      `yaml:"tracks"`
	Routes      []RouteSpec      `yaml:"routes"`
	Workshops   []WorkshopSpec   `yaml:"workshops"`
	Locomotives []LocomotiveSpec `yaml:"locomotives"`
	Trains      []TrainSpec      `yaml:"trains"`

	// DefaultRouteMinutes is the travel-time fallback for unlisted
	// track pairs.
	DefaultRouteMinutes float64 `yaml:"default_route_minutes"`

	ProcessTimes ProcessTimesSpec `yaml:"process_times"`
	Strategies   StrategiesSpec   `yaml:"strategies"`
	Parking      ParkingSpec      `yaml:"parking"`
}

// TrackSpec defines one yard track.
type TrackSpec struct {
	ID     string  `yaml:"id"`
	Type   string  `yaml:"type"`
	Length float64 `yaml:"length"`
	// FillFactor is the usable fraction; 0 means the default 0.75.
	FillFactor    float64 `yaml:"fill_factor,omitempty"`
	MaxWagonCount int     `yaml:"max_wagon_count,omitempty"`
}

// RouteSpec is a point-to-point travel duration. Lookups work in both
// directions.
type RouteSpec struct {
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Minutes float64 `yaml:"minutes"`
}

// WorkshopSpec defines one retrofit facility.
type WorkshopSpec struct {
	ID              string  `yaml:"id"`
	Track           string  `yaml:"track"`
	Bays            int     `yaml:"bays"`
	RetrofitMinutes float64 `yaml:"retrofit_minutes"`
}

// LocomotiveSpec defines one shunting locomotive.
type LocomotiveSpec struct {
	ID           string `yaml:"id"`
	HomeTrack    string `yaml:"home_track"`
	CouplerFront string `yaml:"coupler_front"`
	CouplerBack  string `yaml:"coupler_back"`
}

// TrainSpec is one scheduled arrival with its consist.
type TrainSpec struct {
	ID             string      `yaml:"id"`
	ArrivalMinutes float64     `yaml:"arrival_minutes"`
	Wagons         []WagonSpec `yaml:"wagons"`
}

// WagonSpec defines one wagon of an arriving train.
type WagonSpec struct {
	ID            string  `yaml:"id"`
	Length        float64 `yaml:"length"`
	CouplerA      string  `yaml:"coupler_a"`
	CouplerB      string  `yaml:"coupler_b"`
	NeedsRetrofit bool    `yaml:"needs_retrofit"`
}

// ProcessTimesSpec is the process-time table in minutes. Zero values
// fall back to the core's defaults.
type ProcessTimesSpec struct {
	CoupleScrew    float64 `yaml:"couple_screw,omitempty"`
	CoupleDAC      float64 `yaml:"couple_dac,omitempty"`
	CoupleHybrid   float64 `yaml:"couple_hybrid,omitempty"`
	DecoupleScrew  float64 `yaml:"decouple_screw,omitempty"`
	DecoupleDAC    float64 `yaml:"decouple_dac,omitempty"`
	DecoupleHybrid float64 `yaml:"decouple_hybrid,omitempty"`
	HumpPerWagon   float64 `yaml:"hump_per_wagon,omitempty"`
}

// StrategiesSpec selects the resource-selection policies.
type StrategiesSpec struct {
	// TrackSelection: FIRST_AVAILABLE, LEAST_OCCUPIED, ROUND_ROBIN or
	// RANDOM. Empty means FIRST_AVAILABLE.
	TrackSelection string `yaml:"track_selection,omitempty"`
	// RakeFormation: WORKSHOP_CAPACITY or RETROFIT_TRACK_ALLOCATION.
	// Empty means RETROFIT_TRACK_ALLOCATION.
	RakeFormation string `yaml:"rake_formation,omitempty"`
	// CollectionPollMinutes is the collection coordinator's back-off.
	CollectionPollMinutes float64 `yaml:"collection_poll_minutes,omitempty"`
}

// ParkingSpec tunes the parking coordinator.
type ParkingSpec struct {
	// Mode: OPPORTUNISTIC (default) or SMART_ACCUMULATION.
	Mode                  string  `yaml:"mode,omitempty"`
	BatchSize             int     `yaml:"batch_size,omitempty"`
	AccumulationThreshold int     `yaml:"accumulation_threshold,omitempty"`
	CriticalThreshold     int     `yaml:"critical_threshold,omitempty"`
	PollMinutes           float64 `yaml:"poll_minutes,omitempty"`
}

// WagonCount returns the total number of wagons across all trains.
func (s *Scenario) WagonCount() int {
	n := 0
	for _, tr := range s.Trains {
		n += len(tr.Wagons)
	}
	return n
}

// TracksOfType returns the track specs with the given type, in
// declaration order.
func (s *Scenario) TracksOfType(tt string) []TrackSpec {
	var out []TrackSpec
	for _, t := range s.Tracks {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}
