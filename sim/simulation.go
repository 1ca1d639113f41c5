// Simulation is the top-level façade: it builds the yard from a
// validated scenario, wires the coordinators, and exposes the control
// surface — Run(until) and CurrentTime — plus the final metrics.

package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/OpenRailAssociation/dac-migration-dss-popupsim-sub003/sim/scenario"
)

// Simulation owns one yard and its processes.
type Simulation struct {
	Sched   *Scheduler
	Yard    *Yard
	Metrics *Metrics

	trains []*Train
	wagons map[string]*Wagon
	locos  map[string]*Locomotive

	readyQueues map[string]*Store[*Wagon]
	staging     *Store[*Wagon]

	arrival    *ArrivalCoordinator
	collection *CollectionCoordinator
	workshops  []*WorkshopCoordinator
	parking    *ParkingCoordinator
}

// New builds a simulation from a validated scenario. rec receives the
// domain-event stream; pass nil to drop it.
func New(scn *scenario.Scenario, rec Recorder) (*Simulation, error) {
	if err := scn.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	sched := NewScheduler()
	metrics := NewMetrics()
	if rec == nil {
		rec = NopRecorder{}
	}
	rec = MultiRecorder(metrics, rec)

	times := buildProcessTimes(scn.ProcessTimes)
	cfg := buildCoordinatorConfig(scn)
	rng := NewPartitionedRNG(scn.Seed)

	tracks := make([]*Track, 0, len(scn.Tracks))
	for _, ts := range scn.Tracks {
		tracks = append(tracks, NewTrack(ts.ID, TrackType(ts.Type), ts.Length, ts.FillFactor, ts.MaxWagonCount))
	}

	routes := NewRouteTable(scn.DefaultRouteMinutes)
	for _, r := range scn.Routes {
		routes.SetRoute(r.From, r.To, r.Minutes)
	}

	workshops := make([]*Workshop, 0, len(scn.Workshops))
	for _, ws := range scn.Workshops {
		workshops = append(workshops, NewWorkshop(ws.ID, ws.Track, ws.Bays, ws.RetrofitMinutes))
	}

	locoList := make([]*Locomotive, 0, len(scn.Locomotives))
	locos := make(map[string]*Locomotive, len(scn.Locomotives))
	for _, ls := range scn.Locomotives {
		l := NewLocomotive(ls.ID, ls.HomeTrack, CouplerType(ls.CouplerFront), CouplerType(ls.CouplerBack))
		locoList = append(locoList, l)
		locos[l.ID()] = l
	}

	yard := &Yard{
		Sched:     sched,
		Rec:       rec,
		Tracks:    NewTrackCapacityManager(sched, rec, tracks),
		Workshops: NewWorkshopCapacityManager(sched, workshops),
		Locos:     NewLocomotivePool(sched, rec, locoList),
		Routes:    routes,
		Coupling:  NewCouplingService(times),
		Formation: NewFormationRegistry(),
		RNG:       rng,
		Times:     times,
		Config:    cfg,
	}

	trains := make([]*Train, 0, len(scn.Trains))
	wagons := make(map[string]*Wagon, scn.WagonCount())
	for _, ts := range scn.Trains {
		consist := make([]*Wagon, 0, len(ts.Wagons))
		for _, wsp := range ts.Wagons {
			w := NewWagon(wsp.ID, wsp.Length, CouplerType(wsp.CouplerA), CouplerType(wsp.CouplerB), wsp.NeedsRetrofit)
			consist = append(consist, w)
			wagons[w.ID()] = w
		}
		trains = append(trains, NewTrain(ts.ID, ts.ArrivalMinutes, consist))
	}

	s := &Simulation{
		Sched:       sched,
		Yard:        yard,
		Metrics:     metrics,
		trains:      trains,
		wagons:      wagons,
		locos:       locos,
		readyQueues: make(map[string]*Store[*Wagon], len(workshops)),
		staging:     NewStore[*Wagon](sched, 0),
	}
	for _, ws := range workshops {
		s.readyQueues[ws.ID()] = NewStore[*Wagon](sched, 0)
	}

	s.wire(scn)
	return s, nil
}

// wire builds the coordinators and starts their processes.
func (s *Simulation) wire(scn *scenario.Scenario) {
	y := s.Yard
	rngTrack := y.RNG.ForSubsystem(SubsystemTrackSelection)
	rngPark := y.RNG.ForSubsystem(SubsystemParking)

	trackStrategy := TrackSelectionStrategy(scn.Strategies.TrackSelection)
	if trackStrategy == "" {
		trackStrategy = SelectFirstAvailable
	}
	formation := FormationStrategyName(scn.Strategies.RakeFormation)
	if formation == "" {
		formation = FormRetrofitTrackAllocation
	}

	s.collection = NewCollectionCoordinator(y, formation, s.readyQueues)
	s.arrival = NewArrivalCoordinator(y, NewTrackSelector(trackStrategy, rngTrack), s.collection.Notify)
	for _, wsID := range y.Workshops.WorkshopIDs() {
		ws := y.Workshops.Workshop(wsID)
		s.workshops = append(s.workshops, NewWorkshopCoordinator(y, ws, s.readyQueues[wsID], s.staging))
	}
	s.parking = NewParkingCoordinator(y, s.staging, NewTrackSelector(trackStrategy, rngPark))

	s.collection.Start()
	for _, wc := range s.workshops {
		wc.Start()
	}
	s.parking.Start()
	s.arrival.Start(s.trains)

	logrus.Infof("simulation wired: %d tracks, %d workshops, %d locomotives, %d trains",
		len(y.Tracks.TrackIDs()), len(y.Workshops.WorkshopIDs()), y.Locos.Total(), len(s.trains))
}

// Run advances the simulation until no events remain at or before
// until. Pass +Inf (or use RunToCompletion) to drain the queue.
func (s *Simulation) Run(until float64) {
	s.Sched.RunUntil(until)
}

// RunToCompletion drains the event queue. Blocked coordinators do not
// hold events, so a finished yard quiesces on its own.
func (s *Simulation) RunToCompletion() {
	s.Sched.RunUntil(math.Inf(1))
}

// CurrentTime returns the virtual clock in minutes.
func (s *Simulation) CurrentTime() float64 {
	return s.Sched.Now()
}

// Wagon returns the wagon with the given id, or nil. Terminal wagons
// stay queryable for metrics.
func (s *Simulation) Wagon(id string) *Wagon { return s.wagons[id] }

// Train returns the train with the given id, or nil.
func (s *Simulation) Train(id string) *Train {
	for _, tr := range s.trains {
		if tr.ID() == id {
			return tr
		}
	}
	return nil
}

// Locomotive returns the locomotive with the given id, or nil.
func (s *Simulation) Locomotive(id string) *Locomotive { return s.locos[id] }

func buildProcessTimes(spec scenario.ProcessTimesSpec) ProcessTimes {
	pt := DefaultProcessTimes()
	if spec.CoupleScrew > 0 {
		pt.CoupleScrew = spec.CoupleScrew
	}
	if spec.CoupleDAC > 0 {
		pt.CoupleDAC = spec.CoupleDAC
	}
	if spec.CoupleHybrid > 0 {
		pt.CoupleHybrid = spec.CoupleHybrid
	}
	if spec.DecoupleScrew > 0 {
		pt.DecoupleScrew = spec.DecoupleScrew
	}
	if spec.DecoupleDAC > 0 {
		pt.DecoupleDAC = spec.DecoupleDAC
	}
	if spec.DecoupleHybrid > 0 {
		pt.DecoupleHybrid = spec.DecoupleHybrid
	}
	if spec.HumpPerWagon > 0 {
		pt.HumpPerWagon = spec.HumpPerWagon
	}
	return pt
}

func buildCoordinatorConfig(scn *scenario.Scenario) CoordinatorConfig {
	cfg := DefaultCoordinatorConfig()
	if scn.Strategies.CollectionPollMinutes > 0 {
		cfg.CollectionPollMinutes = scn.Strategies.CollectionPollMinutes
	}
	if scn.Parking.Mode != "" {
		cfg.ParkingMode = ParkingMode(scn.Parking.Mode)
	}
	if scn.Parking.BatchSize > 0 {
		cfg.ParkingBatchSize = scn.Parking.BatchSize
	}
	if scn.Parking.AccumulationThreshold > 0 {
		cfg.AccumulationThreshold = scn.Parking.AccumulationThreshold
	}
	if scn.Parking.CriticalThreshold > 0 {
		cfg.CriticalThreshold = scn.Parking.CriticalThreshold
	}
	if scn.Parking.PollMinutes > 0 {
		cfg.ParkingPollMinutes = scn.Parking.PollMinutes
	}
	return cfg
}
