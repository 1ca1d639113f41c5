package sim

// captureRecorder keeps every emitted event for assertions.
type captureRecorder struct {
	events []Event
}

func (r *captureRecorder) Record(ev Event) {
	r.events = append(r.events, ev)
}

// kinds returns the recorded event kinds in order.
func (r *captureRecorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

// first returns the first recorded event of the given kind, or nil.
func (r *captureRecorder) first(kind EventKind) *Event {
	for i := range r.events {
		if r.events[i].Kind == kind {
			return &r.events[i]
		}
	}
	return nil
}

// all returns every recorded event of the given kind.
func (r *captureRecorder) all(kind EventKind) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// newTestYard builds a yard around the given tracks with one hybrid
// locomotive, default process times, and a capturing recorder.
func newTestYard(tracks []*Track, routes *RouteTable) (*Yard, *captureRecorder) {
	sched := NewScheduler()
	rec := &captureRecorder{}
	times := DefaultProcessTimes()
	loco := NewLocomotive("loco-1", tracks[0].ID(), CouplerHybrid, CouplerHybrid)
	if routes == nil {
		routes = NewRouteTable(4)
	}
	return &Yard{
		Sched:     sched,
		Rec:       rec,
		Tracks:    NewTrackCapacityManager(sched, rec, tracks),
		Workshops: NewWorkshopCapacityManager(sched, nil),
		Locos:     NewLocomotivePool(sched, rec, []*Locomotive{loco}),
		Routes:    routes,
		Coupling:  NewCouplingService(times),
		Formation: NewFormationRegistry(),
		RNG:       NewPartitionedRNG(1),
		Times:     times,
		Config:    DefaultCoordinatorConfig(),
	}, rec
}
