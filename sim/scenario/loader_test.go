package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
name: test-yard
seed: 7
default_route_minutes: 4
tracks:
  - { id: coll-1, type: COLLECTION, length: 200 }
  - { id: retro-1, type: RETROFIT, length: 120 }
  - { id: shop-1, type: WORKSHOP, length: 60 }
  - { id: done-1, type: RETROFITTED, length: 150 }
  - { id: park-1, type: PARKING, length: 300, fill_factor: 0.8 }
routes:
  - { from: coll-1, to: retro-1, minutes: 5 }
workshops:
  - { id: ws-1, track: shop-1, bays: 2, retrofit_minutes: 45 }
locomotives:
  - { id: loco-1, home_track: park-1, coupler_front: HYBRID, coupler_back: HYBRID }
trains:
  - id: train-1
    arrival_minutes: 10
    wagons:
      - { id: w-1, length: 15, coupler_a: SCREW, coupler_b: SCREW, needs_retrofit: true }
strategies:
  track_selection: LEAST_OCCUPIED
parking:
  mode: SMART_ACCUMULATION
  batch_size: 4
`

func TestParse_ValidScenario(t *testing.T) {
	scn, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-yard", scn.Name)
	assert.Equal(t, int64(7), scn.Seed)
	assert.Len(t, scn.Tracks, 5)
	assert.Equal(t, 0.8, scn.Tracks[4].FillFactor)
	assert.Equal(t, 10.0, scn.Trains[0].ArrivalMinutes)
	assert.True(t, scn.Trains[0].Wagons[0].NeedsRetrofit)
	assert.Equal(t, "LEAST_OCCUPIED", scn.Strategies.TrackSelection)
	assert.Equal(t, "SMART_ACCUMULATION", scn.Parking.Mode)
	assert.Equal(t, 1, scn.WagonCount())
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("tracks: [not: {closed"))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	scn, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-yard", scn.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	scn, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	// Break several independent things at once.
	scn.Tracks[0].Length = -5
	scn.Workshops[0].Track = "nowhere"
	scn.Locomotives[0].CouplerFront = "MAGNET"
	scn.Strategies.TrackSelection = "BOGUS"

	err = scn.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "coll-1")
	assert.Contains(t, msg, "nowhere")
	assert.Contains(t, msg, "MAGNET")
	assert.Contains(t, msg, "BOGUS")
}

func TestValidate_DuplicateIDs(t *testing.T) {
	scn, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	scn.Tracks = append(scn.Tracks, TrackSpec{ID: "coll-1", Type: "COLLECTION", Length: 100})

	err = scn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestValidate_FeasibilityRequiresFullPipeline(t *testing.T) {
	scn, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	// Retrofit wagons arrive, but the parking track vanished.
	scn.Tracks = scn.Tracks[:4]
	// Re-home the locomotive so only the missing track type remains.
	scn.Locomotives[0].HomeTrack = "coll-1"

	err = scn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PARKING track")
}

func TestValidate_NoRetrofitWagons_SkipsFeasibility(t *testing.T) {
	scn, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	// A pure bypass consist runs fine in a bare yard.
	scn.Trains[0].Wagons[0].NeedsRetrofit = false
	scn.Tracks = scn.Tracks[:1]
	scn.Workshops = nil
	scn.Locomotives = nil
	scn.Routes = nil

	assert.NoError(t, scn.Validate())
}

func TestValidate_WorkshopTrackMustBeWorkshopType(t *testing.T) {
	scn, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	scn.Workshops[0].Track = "coll-1"

	err = scn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want WORKSHOP")
}

func TestValidate_WorkshopTracksAreExclusive(t *testing.T) {
	scn, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	// Two workshops on one track would shadow each other in the
	// per-track capacity bookkeeping.
	scn.Workshops = append(scn.Workshops, WorkshopSpec{
		ID: "ws-2", Track: "shop-1", Bays: 1, RetrofitMinutes: 30,
	})

	err = scn.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `track "shop-1" already used by workshop "ws-1"`)
}
