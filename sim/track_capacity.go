// Admission control for length-constrained tracks. The manager keeps
// per-track occupancy (used length plus ordered occupant list) and
// enforces the capacity invariant: occupied length never exceeds
// usable capacity, and the occupant count never exceeds the track's
// max wagon count where one is set.

package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// TrackSelectionStrategy names a track selection policy.
type TrackSelectionStrategy string

const (
	SelectFirstAvailable TrackSelectionStrategy = "FIRST_AVAILABLE"
	SelectLeastOccupied  TrackSelectionStrategy = "LEAST_OCCUPIED"
	SelectRoundRobin     TrackSelectionStrategy = "ROUND_ROBIN"
	SelectRandom         TrackSelectionStrategy = "RANDOM"
)

// trackOccupancy is the live bookkeeping for one track.
type trackOccupancy struct {
	used      float64
	occupants []Trackable
}

// TrackCapacityManager answers capacity questions and mutates
// occupancy. It is not a blocking primitive: callers that find no
// capacity back off and retry on their own schedule, they never park
// inside the manager.
type TrackCapacityManager struct {
	sched  *Scheduler
	rec    Recorder
	tracks map[string]*Track
	occ    map[string]*trackOccupancy
	// order preserves scenario declaration order so every "first
	// candidate wins ties" rule is reproducible.
	order []string
}

// NewTrackCapacityManager registers the given tracks, empty.
func NewTrackCapacityManager(sched *Scheduler, rec Recorder, tracks []*Track) *TrackCapacityManager {
	m := &TrackCapacityManager{
		sched:  sched,
		rec:    rec,
		tracks: make(map[string]*Track, len(tracks)),
		occ:    make(map[string]*trackOccupancy, len(tracks)),
	}
	for _, t := range tracks {
		m.tracks[t.ID()] = t
		m.occ[t.ID()] = &trackOccupancy{}
		m.order = append(m.order, t.ID())
	}
	return m
}

// Track returns the track definition for id, or nil.
func (m *TrackCapacityManager) Track(id string) *Track { return m.tracks[id] }

// TrackIDs returns all track ids in declaration order.
func (m *TrackCapacityManager) TrackIDs() []string { return m.order }

// TracksOfType returns the ids of all tracks of the given type, in
// declaration order.
func (m *TrackCapacityManager) TracksOfType(tt TrackType) []string {
	var ids []string
	for _, id := range m.order {
		if m.tracks[id].Type() == tt {
			ids = append(ids, id)
		}
	}
	return ids
}

// Occupied returns the occupied length on the track in metres.
func (m *TrackCapacityManager) Occupied(trackID string) float64 {
	if o := m.occ[trackID]; o != nil {
		return o.used
	}
	return 0
}

// Available returns the remaining usable capacity in metres.
func (m *TrackCapacityManager) Available(trackID string) float64 {
	t := m.tracks[trackID]
	if t == nil {
		return 0
	}
	return t.UsableCapacity() - m.occ[trackID].used
}

// Occupants returns the track's occupants in placement order. Callers
// must not mutate the returned slice.
func (m *TrackCapacityManager) Occupants(trackID string) []Trackable {
	if o := m.occ[trackID]; o != nil {
		return o.occupants
	}
	return nil
}

// CanAdd reports whether an occupant of the given length fits on the
// track right now.
func (m *TrackCapacityManager) CanAdd(trackID string, length float64) bool {
	t := m.tracks[trackID]
	if t == nil {
		return false
	}
	o := m.occ[trackID]
	if o.used+length > t.UsableCapacity() {
		return false
	}
	if t.MaxWagonCount() > 0 && len(o.occupants)+1 > t.MaxWagonCount() {
		return false
	}
	return true
}

// Add places the occupant on the track. Calling Add without a passing
// CanAdd check is a caller bug and returns ErrCapacityExceeded; the
// occupancy is never silently truncated.
func (m *TrackCapacityManager) Add(trackID string, occ Trackable) error {
	if !m.CanAdd(trackID, occ.Length()) {
		return fmt.Errorf("track %s: adding %s (%.1fm) to %.1fm/%.1fm: %w",
			trackID, occ.ID(), occ.Length(), m.Occupied(trackID), m.usable(trackID), ErrCapacityExceeded)
	}
	o := m.occ[trackID]
	o.used += occ.Length()
	o.occupants = append(o.occupants, occ)
	m.emitChange(trackID)
	return nil
}

// restore puts an occupant back on the track it was lifted from after
// a failed transport. It bypasses admission: the wagons are physically
// pushed back where they stood, and if a competing placement took the
// freed space in the meantime the resulting over-occupancy is logged
// rather than leaving the consist off-track.
func (m *TrackCapacityManager) restore(trackID string, occ Trackable) {
	o := m.occ[trackID]
	if o == nil {
		logrus.Warnf("TrackCapacityManager.restore: unknown track %q", trackID)
		return
	}
	if !m.CanAdd(trackID, occ.Length()) {
		logrus.Warnf("TrackCapacityManager.restore: %s (%.1fm) overfills track %q (%.1f/%.1f)",
			occ.ID(), occ.Length(), trackID, o.used, m.usable(trackID))
	}
	o.used += occ.Length()
	o.occupants = append(o.occupants, occ)
	m.emitChange(trackID)
}

// Remove takes the occupant off the track. Removing more than present
// clamps at zero and logs a warning; it is defensive, not fatal.
func (m *TrackCapacityManager) Remove(trackID string, occ Trackable) {
	o := m.occ[trackID]
	if o == nil {
		logrus.Warnf("TrackCapacityManager.Remove: unknown track %q", trackID)
		return
	}
	found := false
	for i, cand := range o.occupants {
		if cand.ID() == occ.ID() {
			o.occupants = append(o.occupants[:i], o.occupants[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		logrus.Warnf("TrackCapacityManager.Remove: %s not on track %q", occ.ID(), trackID)
	}
	o.used -= occ.Length()
	if o.used < 0 {
		logrus.Warnf("TrackCapacityManager.Remove: track %q occupancy underflow, clamping to 0", trackID)
		o.used = 0
	}
	m.emitChange(trackID)
}

func (m *TrackCapacityManager) usable(trackID string) float64 {
	if t := m.tracks[trackID]; t != nil {
		return t.UsableCapacity()
	}
	return 0
}

func (m *TrackCapacityManager) emitChange(trackID string) {
	m.rec.Record(Event{
		Time:   m.sched.Now(),
		Kind:   EventTrackCapacityChanged,
		Track:  trackID,
		Detail: fmt.Sprintf("%.1f/%.1f", m.Occupied(trackID), m.usable(trackID)),
	})
}

// TrackSelector picks a track among candidates according to one
// strategy. The round-robin index lives on the selector instance, so
// independent callers rotate independently.
type TrackSelector struct {
	strategy TrackSelectionStrategy
	rr       int
	rng      *rand.Rand
}

// NewTrackSelector returns a selector for the strategy. rng is only
// consulted by RANDOM and may be nil for the other strategies.
func NewTrackSelector(strategy TrackSelectionStrategy, rng *rand.Rand) *TrackSelector {
	return &TrackSelector{strategy: strategy, rng: rng}
}

// Strategy returns the selector's strategy.
func (s *TrackSelector) Strategy() TrackSelectionStrategy { return s.strategy }

// SelectTrack returns the chosen candidate track id for an occupant of
// the given length, or ok=false when no candidate has capacity.
// Callers handle exhaustion by back-off and retry, never by blocking
// inside the capacity check.
func (m *TrackCapacityManager) SelectTrack(sel *TrackSelector, candidates []string, length float64) (string, bool) {
	switch sel.strategy {
	case SelectLeastOccupied:
		return m.selectLeastOccupied(candidates, length)
	case SelectRoundRobin:
		return m.selectRoundRobin(sel, candidates, length)
	case SelectRandom:
		return m.selectRandom(sel, candidates, length)
	default:
		return m.selectFirstAvailable(candidates, length)
	}
}

func (m *TrackCapacityManager) selectFirstAvailable(candidates []string, length float64) (string, bool) {
	for _, id := range candidates {
		if m.CanAdd(id, length) {
			return id, true
		}
	}
	return "", false
}

func (m *TrackCapacityManager) selectLeastOccupied(candidates []string, length float64) (string, bool) {
	best := ""
	bestRatio := 0.0
	for _, id := range candidates {
		if !m.CanAdd(id, length) {
			continue
		}
		usable := m.usable(id)
		if usable <= 0 {
			continue
		}
		ratio := m.Occupied(id) / usable
		// Strict less-than keeps the earliest candidate on ties.
		if best == "" || ratio < bestRatio {
			best, bestRatio = id, ratio
		}
	}
	return best, best != ""
}

func (m *TrackCapacityManager) selectRoundRobin(sel *TrackSelector, candidates []string, length float64) (string, bool) {
	n := len(candidates)
	for i := 0; i < n; i++ {
		idx := (sel.rr + i) % n
		if m.CanAdd(candidates[idx], length) {
			sel.rr = (idx + 1) % n
			return candidates[idx], true
		}
	}
	return "", false
}

func (m *TrackCapacityManager) selectRandom(sel *TrackSelector, candidates []string, length float64) (string, bool) {
	var fits []string
	for _, id := range candidates {
		if m.CanAdd(id, length) {
			fits = append(fits, id)
		}
	}
	if len(fits) == 0 {
		return "", false
	}
	return fits[sel.rng.Intn(len(fits))], true
}
