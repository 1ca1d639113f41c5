// Point-to-point travel durations between tracks. Routing is a fixed
// lookup, never kinematics.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type routeKey struct {
	from, to string
}

// RouteTable resolves travel durations between tracks. Lookups are
// tried in both directions; a missing route falls back to the default
// duration with a warning so a sparse scenario degrades instead of
// deadlocking mid-transport.
type RouteTable struct {
	durations      map[routeKey]float64
	defaultMinutes float64
}

// NewRouteTable creates an empty table with the given fallback
// duration.
func NewRouteTable(defaultMinutes float64) *RouteTable {
	return &RouteTable{
		durations:      make(map[routeKey]float64),
		defaultMinutes: defaultMinutes,
	}
}

// SetRoute records the travel duration between two tracks.
func (rt *RouteTable) SetRoute(from, to string, minutes float64) {
	rt.durations[routeKey{from, to}] = minutes
}

// Duration returns the travel time from one track to another. A
// route from a track to itself is free.
func (rt *RouteTable) Duration(from, to string) float64 {
	if from == to {
		return 0
	}
	if d, ok := rt.durations[routeKey{from, to}]; ok {
		return d
	}
	if d, ok := rt.durations[routeKey{to, from}]; ok {
		return d
	}
	logrus.Warnf("route %s -> %s not configured, using default %.1f min", from, to, rt.defaultMinutes)
	return rt.defaultMinutes
}

// HasRoute reports whether a duration is configured in either
// direction.
func (rt *RouteTable) HasRoute(from, to string) bool {
	if from == to {
		return true
	}
	if _, ok := rt.durations[routeKey{from, to}]; ok {
		return true
	}
	_, ok := rt.durations[routeKey{to, from}]
	return ok
}

// Validate checks that every pair in pairs has a configured route and
// returns one error per missing pair.
func (rt *RouteTable) Validate(pairs [][2]string) error {
	var missing []string
	for _, pr := range pairs {
		if !rt.HasRoute(pr[0], pr[1]) {
			missing = append(missing, fmt.Sprintf("%s->%s", pr[0], pr[1]))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrUnknownRoute, missing)
	}
	return nil
}
