// Package trace provides event-trace recording for post-run yard
// analysis. This package has no dependencies on sim/ — it stores pure
// data types; the bridge from the live event stream lives with the
// consumer.
package trace

// EventRecord captures a single yard event with its virtual timestamp.
type EventRecord struct {
	Time       float64 `json:"time"`
	Kind       string  `json:"kind"`
	Train      string  `json:"train,omitempty"`
	Wagon      string  `json:"wagon,omitempty"`
	Rake       string  `json:"rake,omitempty"`
	Track      string  `json:"track,omitempty"`
	Workshop   string  `json:"workshop,omitempty"`
	Locomotive string  `json:"locomotive,omitempty"`
	Detail     string  `json:"detail,omitempty"`
}
