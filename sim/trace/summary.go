package trace

// Summary aggregates statistics from an event log.
type Summary struct {
	TotalEvents       int            `json:"total_events"`
	FirstEventMinutes float64        `json:"first_event_minutes"`
	LastEventMinutes  float64        `json:"last_event_minutes"`
	KindCounts        map[string]int `json:"kind_counts"`
	DeliveriesByTrack map[string]int `json:"deliveries_by_track"`
	RetrofitsByShop   map[string]int `json:"retrofits_by_workshop"`
}

// Event kind names the summary keys on. Kept as plain strings so the
// package stays free of sim/ imports.
const (
	kindWagonDelivered    = "WagonDelivered"
	kindRetrofitCompleted = "RetrofitCompleted"
)

// Summarize computes aggregate statistics from a Log.
// Safe for nil or empty logs (returns zero-value fields).
func Summarize(l *Log) *Summary {
	summary := &Summary{
		KindCounts:        make(map[string]int),
		DeliveriesByTrack: make(map[string]int),
		RetrofitsByShop:   make(map[string]int),
	}
	if l == nil || len(l.Events) == 0 {
		return summary
	}

	summary.TotalEvents = len(l.Events)
	summary.FirstEventMinutes = l.Events[0].Time
	summary.LastEventMinutes = l.Events[len(l.Events)-1].Time

	for _, ev := range l.Events {
		summary.KindCounts[ev.Kind]++
		switch ev.Kind {
		case kindWagonDelivered:
			summary.DeliveriesByTrack[ev.Track]++
		case kindRetrofitCompleted:
			summary.RetrofitsByShop[ev.Workshop]++
		}
	}

	return summary
}
