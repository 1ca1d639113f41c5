package sim

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenRailAssociation/dac-migration-dss-popupsim-sub003/sim/scenario"
)

// pipelineScenario returns a minimal full-pipeline yard: one workshop
// with the given bay count, one locomotive, and the given trains.
func pipelineScenario(bays int, trains []scenario.TrainSpec) *scenario.Scenario {
	return &scenario.Scenario{
		Name: "test",
		Seed: 42,
		Tracks: []scenario.TrackSpec{
			{ID: "collection-1", Type: "COLLECTION", Length: 200},
			{ID: "retrofit-1", Type: "RETROFIT", Length: 120},
			{ID: "workshop-track-1", Type: "WORKSHOP", Length: 60},
			{ID: "retrofitted-1", Type: "RETROFITTED", Length: 150},
			{ID: "parking-1", Type: "PARKING", Length: 300},
		},
		Routes: []scenario.RouteSpec{
			{From: "collection-1", To: "retrofit-1", Minutes: 5},
			{From: "retrofit-1", To: "workshop-track-1", Minutes: 2},
			{From: "workshop-track-1", To: "retrofitted-1", Minutes: 2},
			{From: "retrofitted-1", To: "parking-1", Minutes: 7},
		},
		DefaultRouteMinutes: 4,
		Workshops: []scenario.WorkshopSpec{
			{ID: "ws-1", Track: "workshop-track-1", Bays: bays, RetrofitMinutes: 10},
		},
		Locomotives: []scenario.LocomotiveSpec{
			{ID: "loco-1", HomeTrack: "parking-1", CouplerFront: "HYBRID", CouplerBack: "HYBRID"},
		},
		Trains: trains,
	}
}

func retrofitWagon(id string) scenario.WagonSpec {
	return scenario.WagonSpec{ID: id, Length: 15, CouplerA: "SCREW", CouplerB: "SCREW", NeedsRetrofit: true}
}

func TestSimulation_SingleWagonFullPipeline(t *testing.T) {
	// GIVEN one screw wagon arriving at t=0 into a one-bay yard
	scn := pipelineScenario(1, []scenario.TrainSpec{
		{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{retrofitWagon("w1")}},
	})
	rec := &captureRecorder{}
	s, err := New(scn, rec)
	require.NoError(t, err)

	// WHEN the yard runs dry
	s.RunToCompletion()

	// THEN the wagon ends parked with DAC couplers on both ends
	w := s.Wagon("w1")
	require.NotNil(t, w)
	assert.Equal(t, WagonParked, w.Status())
	assert.Equal(t, CouplerDAC, w.CouplerA())
	assert.Equal(t, CouplerDAC, w.CouplerB())
	assert.Equal(t, "parking-1", w.Track())
	assert.Equal(t, TrainDeparted, s.Train("train-1").Status())

	// The milestone events appear exactly once each, in pipeline order.
	milestones := []EventKind{
		EventTrainArrived, EventWagonClassified, EventTrainDeparted,
		EventBatchFormed, EventRetrofitStarted, EventRetrofitCompleted,
		EventWagonParked,
	}
	lastTime := -1.0
	for _, kind := range milestones {
		evs := rec.all(kind)
		require.Len(t, evs, 1, "event %s", kind)
		assert.GreaterOrEqual(t, evs[0].Time, lastTime, "event %s out of order", kind)
		lastTime = evs[0].Time
	}

	// Metrics agree with the event stream.
	m := s.Metrics
	assert.Equal(t, 1, m.TrainsArrived)
	assert.Equal(t, 1, m.WagonsAccepted)
	assert.Equal(t, 1, m.RetrofitsCompleted)
	assert.Equal(t, 1, m.WagonsParked)
	assert.Equal(t, 0, m.WagonsRejected)

	// Everything ends released: the pool is whole, no track but
	// parking holds wagons.
	assert.Equal(t, 1, s.Yard.Locos.Available())
	assert.Equal(t, 0.0, s.Yard.Tracks.Occupied("collection-1"))
	assert.Equal(t, 0.0, s.Yard.Tracks.Occupied("retrofit-1"))
	assert.Equal(t, 0.0, s.Yard.Tracks.Occupied("workshop-track-1"))
	assert.Equal(t, 15.0, s.Yard.Tracks.Occupied("parking-1"))
}

func TestSimulation_BypassAndRejectStayOnTrain(t *testing.T) {
	// GIVEN a train with a bypass wagon and a wagon too long for any
	// collection track
	scn := pipelineScenario(1, []scenario.TrainSpec{
		{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{
			{ID: "bypass", Length: 15, CouplerA: "DAC", CouplerB: "DAC", NeedsRetrofit: false},
			{ID: "giant", Length: 500, CouplerA: "SCREW", CouplerB: "SCREW", NeedsRetrofit: true},
		}},
	})
	rec := &captureRecorder{}
	s, err := New(scn, rec)
	require.NoError(t, err)

	// WHEN the yard runs dry
	s.RunToCompletion()

	// THEN neither wagon entered the pipeline and both departed with
	// the train shell
	assert.Equal(t, WagonClassified, s.Wagon("bypass").Status())
	assert.Equal(t, WagonRejected, s.Wagon("giant").Status())
	assert.Len(t, s.Train("train-1").Wagons(), 2)
	assert.Equal(t, TrainDeparted, s.Train("train-1").Status())

	assert.Equal(t, 1, s.Metrics.WagonsBypassed)
	assert.Equal(t, 1, s.Metrics.WagonsRejected)
	assert.Equal(t, 0, s.Metrics.RakesFormed)

	bypassEv := rec.first(EventWagonClassified)
	require.NotNil(t, bypassEv)
	assert.Equal(t, ClassifyBypass, bypassEv.Detail)
}

func TestSimulation_SingleLocomotiveSerializesTransports(t *testing.T) {
	// GIVEN two trains competing for one locomotive
	scn := pipelineScenario(2, []scenario.TrainSpec{
		{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{retrofitWagon("w1")}},
		{ID: "train-2", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{retrofitWagon("w2")}},
	})
	rec := &captureRecorder{}
	s, err := New(scn, rec)
	require.NoError(t, err)

	// WHEN the yard runs dry
	s.RunToCompletion()

	// THEN allocations and releases strictly alternate: a later
	// allocation never predates the preceding release
	var lastRelease float64 = -1
	holding := false
	for _, ev := range rec.events {
		switch ev.Kind {
		case EventLocomotiveAllocated:
			require.False(t, holding, "allocation while the unit is held")
			assert.GreaterOrEqual(t, ev.Time, lastRelease)
			holding = true
		case EventLocomotiveReleased:
			require.True(t, holding, "release without allocation")
			lastRelease = ev.Time
			holding = false
		}
	}
	assert.False(t, holding, "locomotive leaked at end of run")

	// Both wagons still complete the pipeline.
	assert.Equal(t, WagonParked, s.Wagon("w1").Status())
	assert.Equal(t, WagonParked, s.Wagon("w2").Status())
}

func TestSimulation_RunUntil_PausesAndResumes(t *testing.T) {
	// GIVEN a yard with work beyond the first horizon
	scn := pipelineScenario(1, []scenario.TrainSpec{
		{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{retrofitWagon("w1")}},
	})
	s, err := New(scn, nil)
	require.NoError(t, err)

	// WHEN run only past the classification step
	s.Run(2)

	// THEN the clock sits on the bound and the pipeline is mid-flight
	assert.Equal(t, 2.0, s.CurrentTime())
	assert.NotEqual(t, WagonParked, s.Wagon("w1").Status())

	// AND a later run finishes the job
	s.RunToCompletion()
	assert.Equal(t, WagonParked, s.Wagon("w1").Status())
}

func TestSimulation_SameSeedReplaysIdentically(t *testing.T) {
	// GIVEN a scenario using seeded random track selection
	build := func() *captureRecorder {
		scn := pipelineScenario(2, []scenario.TrainSpec{
			{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{
				retrofitWagon("w1"), retrofitWagon("w2"), retrofitWagon("w3"),
			}},
			{ID: "train-2", ArrivalMinutes: 30, Wagons: []scenario.WagonSpec{
				retrofitWagon("w4"), retrofitWagon("w5"),
			}},
		})
		scn.Tracks = append(scn.Tracks, scenario.TrackSpec{ID: "collection-2", Type: "COLLECTION", Length: 200})
		scn.Strategies.TrackSelection = "RANDOM"
		rec := &captureRecorder{}
		s, err := New(scn, rec)
		require.NoError(t, err)
		s.RunToCompletion()
		return rec
	}

	// WHEN the same scenario and seed run twice
	r1, r2 := build(), build()

	// THEN the full event streams are bit-for-bit identical
	require.Equal(t, len(r1.events), len(r2.events))
	if !reflect.DeepEqual(r1.events, r2.events) {
		t.Error("event streams diverge between identical runs")
	}
}

func TestSimulation_SmartAccumulationParksEverything(t *testing.T) {
	// GIVEN smart accumulation with a threshold the trickle of
	// finished wagons only sometimes reaches
	scn := pipelineScenario(2, []scenario.TrainSpec{
		{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{
			retrofitWagon("w1"), retrofitWagon("w2"), retrofitWagon("w3"),
		}},
	})
	scn.Parking.Mode = "SMART_ACCUMULATION"
	scn.Parking.AccumulationThreshold = 2
	scn.Parking.CriticalThreshold = 4
	s, err := New(scn, nil)
	require.NoError(t, err)

	// WHEN the yard runs dry
	s.RunToCompletion()

	// THEN no wagon is stranded on staging
	for _, id := range []string{"w1", "w2", "w3"} {
		assert.Equal(t, WagonParked, s.Wagon(id).Status(), id)
	}
	assert.Equal(t, 3, s.Metrics.WagonsParked)
}

func TestSimulation_BatchWiderThanWorkshopTrackSplits(t *testing.T) {
	// GIVEN more idle bays than the workshop track can hold wagons:
	// four bays behind a 60 m track (45 m usable), fed four 15 m wagons
	scn := pipelineScenario(4, []scenario.TrainSpec{
		{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{
			retrofitWagon("w1"), retrofitWagon("w2"), retrofitWagon("w3"), retrofitWagon("w4"),
		}},
	})
	rec := &captureRecorder{}
	s, err := New(scn, rec)
	require.NoError(t, err)

	// WHEN the yard runs dry
	s.RunToCompletion()

	// THEN the batcher split on track length and every wagon still made
	// it through; none ends off-track mid-move
	for _, id := range []string{"w1", "w2", "w3", "w4"} {
		w := s.Wagon(id)
		assert.Equal(t, WagonParked, w.Status(), id)
		assert.Equal(t, "parking-1", w.Track(), id)
		assert.False(t, w.Moving(), id)
	}
	assert.Len(t, rec.all(EventRetrofitCompleted), 4)
	assert.Equal(t, 4, s.Metrics.WagonsParked)
	assert.Equal(t, 0.0, s.Yard.Tracks.Occupied("workshop-track-1"))
	assert.Equal(t, 1, s.Yard.Locos.Available())
}

func TestSimulation_WorkshopsContendingForStagingAllPark(t *testing.T) {
	// GIVEN two workshops whose finished batches race for one staging
	// track with room for a single batch
	scn := pipelineScenario(2, []scenario.TrainSpec{
		{ID: "train-1", ArrivalMinutes: 0, Wagons: []scenario.WagonSpec{
			retrofitWagon("w1"), retrofitWagon("w2"), retrofitWagon("w3"), retrofitWagon("w4"),
		}},
	})
	scn.Tracks = append(scn.Tracks, scenario.TrackSpec{ID: "workshop-track-2", Type: "WORKSHOP", Length: 60})
	scn.Workshops = append(scn.Workshops, scenario.WorkshopSpec{
		ID: "ws-2", Track: "workshop-track-2", Bays: 2, RetrofitMinutes: 10,
	})
	for i := range scn.Tracks {
		if scn.Tracks[i].ID == "retrofitted-1" {
			scn.Tracks[i].Length = 40 // 30 m usable: one two-wagon batch
		}
	}
	s, err := New(scn, nil)
	require.NoError(t, err)

	// WHEN the yard runs dry
	s.RunToCompletion()

	// THEN the loser of the race retried instead of stranding its batch
	for _, id := range []string{"w1", "w2", "w3", "w4"} {
		w := s.Wagon(id)
		assert.Equal(t, WagonParked, w.Status(), id)
		assert.False(t, w.Moving(), id)
	}
	assert.Equal(t, 4, s.Metrics.WagonsParked)
	assert.Equal(t, 0.0, s.Yard.Tracks.Occupied("retrofitted-1"))
	assert.Equal(t, 1, s.Yard.Locos.Available())
}

func TestSimulation_RejectsInvalidScenario(t *testing.T) {
	scn := pipelineScenario(1, nil)
	scn.Tracks = scn.Tracks[:1] // strip the pipeline tracks

	_, err := New(scn, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}
