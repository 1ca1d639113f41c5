// The domain-event stream the core emits toward analytics. Consumers
// receive flat records with a simulation timestamp and the relevant
// entity ids; the core itself never reads them back.

package sim

// EventKind identifies a domain event.
type EventKind string

const (
	EventTrainArrived         EventKind = "TrainArrived"
	EventTrainDeparted        EventKind = "TrainDeparted"
	EventWagonClassified      EventKind = "WagonClassified"
	EventWagonDelivered       EventKind = "WagonDelivered"
	EventRetrofitStarted      EventKind = "RetrofitStarted"
	EventRetrofitCompleted    EventKind = "RetrofitCompleted"
	EventWagonParked          EventKind = "WagonParked"
	EventLocomotiveAllocated  EventKind = "LocomotiveAllocated"
	EventLocomotiveReleased   EventKind = "LocomotiveReleased"
	EventLocomotiveMoving     EventKind = "LocomotiveMoving"
	EventTrackCapacityChanged EventKind = "TrackCapacityChanged"
	EventBatchFormed          EventKind = "BatchFormed"
	EventTransportStarted     EventKind = "TransportStarted"
	EventArrivedAtDestination EventKind = "ArrivedAtDestination"
)

// Classification outcomes carried in the Detail field of
// WagonClassified events.
const (
	ClassifyBypass   = "BYPASS"
	ClassifyRetrofit = "RETROFIT"
	ClassifyReject   = "REJECT"
)

// Event is one domain event. Unused id fields stay empty.
type Event struct {
	Time       float64   `json:"time"`
	Kind       EventKind `json:"kind"`
	Wagon      string    `json:"wagon,omitempty"`
	Train      string    `json:"train,omitempty"`
	Rake       string    `json:"rake,omitempty"`
	Locomotive string    `json:"locomotive,omitempty"`
	Track      string    `json:"track,omitempty"`
	Workshop   string    `json:"workshop,omitempty"`
	// Detail carries the event-specific payload: classification
	// outcome, destination track, occupancy figure.
	Detail string `json:"detail,omitempty"`
}

// Recorder receives the domain-event stream. Implementations must not
// block; they run inside the scheduler's turn.
type Recorder interface {
	Record(ev Event)
}

// NopRecorder drops every event. Used when no analytics sink is wired.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(Event) {}

// recorderFunc adapts a function to the Recorder interface.
type recorderFunc func(Event)

func (f recorderFunc) Record(ev Event) { f(ev) }

// MultiRecorder fans an event out to several recorders in order.
func MultiRecorder(recorders ...Recorder) Recorder {
	return recorderFunc(func(ev Event) {
		for _, r := range recorders {
			r.Record(ev)
		}
	})
}
