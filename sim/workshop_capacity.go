// Bay bookkeeping across all workshops, keyed by workshop track. The
// manager is the single mutation path for bay state and the source of
// the "unclaimed capacity" figures the batchers plan against.

package sim

import "fmt"

// WorkshopCapacityManager tracks bays per workshop track.
type WorkshopCapacityManager struct {
	sched     *Scheduler
	workshops map[string]*Workshop // by workshop id
	byTrack   map[string]*Workshop // by workshop track id
	order     []string             // workshop ids in declaration order
}

// NewWorkshopCapacityManager registers the given workshops.
func NewWorkshopCapacityManager(sched *Scheduler, workshops []*Workshop) *WorkshopCapacityManager {
	m := &WorkshopCapacityManager{
		sched:     sched,
		workshops: make(map[string]*Workshop, len(workshops)),
		byTrack:   make(map[string]*Workshop, len(workshops)),
	}
	for _, ws := range workshops {
		m.workshops[ws.ID()] = ws
		m.byTrack[ws.Track()] = ws
		m.order = append(m.order, ws.ID())
	}
	return m
}

// Workshop returns the workshop with the given id, or nil.
func (m *WorkshopCapacityManager) Workshop(id string) *Workshop { return m.workshops[id] }

// WorkshopOnTrack returns the workshop whose track is trackID, or nil.
func (m *WorkshopCapacityManager) WorkshopOnTrack(trackID string) *Workshop { return m.byTrack[trackID] }

// WorkshopIDs returns all workshop ids in declaration order.
func (m *WorkshopCapacityManager) WorkshopIDs() []string { return m.order }

// GetAvailableStations returns the number of idle bays on the given
// workshop track.
func (m *WorkshopCapacityManager) GetAvailableStations(trackID string) int {
	if ws := m.byTrack[trackID]; ws != nil {
		return ws.IdleBays()
	}
	return 0
}

// AssignToBay puts the wagon into an idle bay of the workshop and
// returns the bay index.
func (m *WorkshopCapacityManager) AssignToBay(workshopID, wagonID string) (int, error) {
	ws := m.workshops[workshopID]
	if ws == nil {
		return -1, fmt.Errorf("unknown workshop %q", workshopID)
	}
	return ws.AssignToBay(m.sched.Now(), wagonID)
}

// CompleteRetrofit frees the bay and returns the wagon id it held.
// Completing an already-idle bay returns ErrBayAlreadyIdle.
func (m *WorkshopCapacityManager) CompleteRetrofit(workshopID string, bayIndex int) (string, error) {
	ws := m.workshops[workshopID]
	if ws == nil {
		return "", fmt.Errorf("unknown workshop %q", workshopID)
	}
	return ws.CompleteRetrofit(m.sched.Now(), bayIndex)
}

// Utilization returns busy-bay-time over total-bay-time for one
// workshop, accumulated incrementally.
func (m *WorkshopCapacityManager) Utilization(workshopID string) float64 {
	ws := m.workshops[workshopID]
	if ws == nil {
		return 0
	}
	return ws.Utilization(m.sched.Now())
}
