// Tracks simulation-wide counters for final reporting. Metrics is a
// Recorder: it folds the domain-event stream into running counts, so
// the coordinators never talk to it directly.

package sim

import "fmt"

// Metrics aggregates statistics about the simulation for final
// reporting. Useful for evaluating yard throughput and debugging
// behavior over time.
type Metrics struct {
	TrainsArrived  int
	TrainsDeparted int

	WagonsBypassed int // classified BYPASS, depart with the train
	WagonsAccepted int // classified RETROFIT, placed on collection
	WagonsRejected int // classified REJECT, terminal

	RakesFormed        int
	TransportsStarted  int
	WagonsDelivered    int
	RetrofitsStarted   int
	RetrofitsCompleted int
	WagonsParked       int
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record implements Recorder.
func (m *Metrics) Record(ev Event) {
	switch ev.Kind {
	case EventTrainArrived:
		m.TrainsArrived++
	case EventTrainDeparted:
		m.TrainsDeparted++
	case EventWagonClassified:
		switch ev.Detail {
		case ClassifyBypass:
			m.WagonsBypassed++
		case ClassifyRetrofit:
			m.WagonsAccepted++
		case ClassifyReject:
			m.WagonsRejected++
		}
	case EventBatchFormed:
		m.RakesFormed++
	case EventTransportStarted:
		m.TransportsStarted++
	case EventWagonDelivered:
		m.WagonsDelivered++
	case EventRetrofitStarted:
		m.RetrofitsStarted++
	case EventRetrofitCompleted:
		m.RetrofitsCompleted++
	case EventWagonParked:
		m.WagonsParked++
	}
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(now float64, pool *LocomotivePool, workshops *WorkshopCapacityManager) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Simulated time       : %.1f min\n", now)
	fmt.Printf("Trains arrived       : %d (departed %d)\n", m.TrainsArrived, m.TrainsDeparted)
	fmt.Printf("Wagons classified    : %d retrofit, %d bypass, %d rejected\n",
		m.WagonsAccepted, m.WagonsBypassed, m.WagonsRejected)
	fmt.Printf("Rakes formed         : %d\n", m.RakesFormed)
	fmt.Printf("Transports started   : %d\n", m.TransportsStarted)
	fmt.Printf("Retrofits            : %d started, %d completed\n", m.RetrofitsStarted, m.RetrofitsCompleted)
	fmt.Printf("Wagons parked        : %d\n", m.WagonsParked)
	if pool != nil {
		fmt.Printf("Locomotive pool      : %d units, %.1f%% utilized\n", pool.Total(), pool.PoolUtilization()*100)
	}
	if workshops != nil {
		for _, id := range workshops.WorkshopIDs() {
			fmt.Printf("Workshop %-12s: %.1f%% bay utilization\n", id, workshops.Utilization(id)*100)
		}
	}
}
