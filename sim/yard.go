// The Yard bundles the shared services every coordinator works
// against: capacity managers, the locomotive pool, routes, coupling
// durations, the formation registry and the event stream. It is built
// once per simulation and handed down, never reached for ambiently.

package sim

// Yard is the shared-service container for one simulation run.
type Yard struct {
	Sched     *Scheduler
	Rec       Recorder
	Tracks    *TrackCapacityManager
	Workshops *WorkshopCapacityManager
	Locos     *LocomotivePool
	Routes    *RouteTable
	Coupling  *CouplingService
	Formation FormationRegistry
	RNG       *PartitionedRNG
	Times     ProcessTimes
	Config    CoordinatorConfig
}

// Now returns the current virtual time.
func (y *Yard) Now() float64 { return y.Sched.Now() }

// emit records a domain event stamped with the current time.
func (y *Yard) emit(ev Event) {
	ev.Time = y.Sched.Now()
	y.Rec.Record(ev)
}
