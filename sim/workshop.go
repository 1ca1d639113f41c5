// Defines the Workshop and its bays. A bay leaves BUSY only through
// CompleteRetrofit; completing an already-idle bay is an error
// surfaced to the caller, never a silent no-op, so throughput can
// never be double-counted.

package sim

import "fmt"

// bay is one retrofit work position. Zero value is idle.
type bay struct {
	busy    bool
	wagonID string
}

// Workshop is one retrofit facility on a workshop track.
type Workshop struct {
	id    string
	track string
	bays  []bay

	// retrofitMinutes is the configured hold time per wagon.
	retrofitMinutes float64

	// O(1) utilization accounting: busyBayMinutes accumulates
	// busyCount x elapsed on every transition instead of scanning
	// history at query time.
	busyCount      int
	busyBayMinutes float64
	lastChange     float64
}

// NewWorkshop creates a workshop with bayCount idle bays.
func NewWorkshop(id, track string, bayCount int, retrofitMinutes float64) *Workshop {
	return &Workshop{
		id:              id,
		track:           track,
		bays:            make([]bay, bayCount),
		retrofitMinutes: retrofitMinutes,
	}
}

// ID returns the workshop id.
func (ws *Workshop) ID() string { return ws.id }

// Track returns the workshop track id.
func (ws *Workshop) Track() string { return ws.track }

// BayCount returns the number of bays.
func (ws *Workshop) BayCount() int { return len(ws.bays) }

// RetrofitMinutes returns the configured retrofit duration per wagon.
func (ws *Workshop) RetrofitMinutes() float64 { return ws.retrofitMinutes }

// IdleBays returns the number of idle bays.
func (ws *Workshop) IdleBays() int { return len(ws.bays) - ws.busyCount }

// BusyBays returns the number of busy bays.
func (ws *Workshop) BusyBays() int { return ws.busyCount }

// AllIdle reports whether every bay is idle.
func (ws *Workshop) AllIdle() bool { return ws.busyCount == 0 }

func (ws *Workshop) String() string {
	return fmt.Sprintf("Workshop(%s track=%s bays=%d busy=%d)", ws.id, ws.track, len(ws.bays), ws.busyCount)
}

// accumulate folds the elapsed busy-bay time into the running total.
func (ws *Workshop) accumulate(now float64) {
	ws.busyBayMinutes += float64(ws.busyCount) * (now - ws.lastChange)
	ws.lastChange = now
}

// AssignToBay puts a wagon into the first idle bay and returns its
// index.
func (ws *Workshop) AssignToBay(now float64, wagonID string) (int, error) {
	for i := range ws.bays {
		if !ws.bays[i].busy {
			ws.accumulate(now)
			ws.bays[i] = bay{busy: true, wagonID: wagonID}
			ws.busyCount++
			return i, nil
		}
	}
	return -1, fmt.Errorf("workshop %s: assigning wagon %s: %w", ws.id, wagonID, ErrNoIdleBay)
}

// CompleteRetrofit frees the given bay. The only way a bay goes
// BUSY -> IDLE.
func (ws *Workshop) CompleteRetrofit(now float64, bayIndex int) (wagonID string, err error) {
	if bayIndex < 0 || bayIndex >= len(ws.bays) {
		return "", fmt.Errorf("workshop %s: bay index %d out of range [0,%d)", ws.id, bayIndex, len(ws.bays))
	}
	b := &ws.bays[bayIndex]
	if !b.busy {
		return "", fmt.Errorf("workshop %s bay %d: %w", ws.id, bayIndex, ErrBayAlreadyIdle)
	}
	ws.accumulate(now)
	wagonID = b.wagonID
	*b = bay{}
	ws.busyCount--
	return wagonID, nil
}

// Utilization returns busy-bay-time / total-bay-time over [0, now].
func (ws *Workshop) Utilization(now float64) float64 {
	if now <= 0 || len(ws.bays) == 0 {
		return 0
	}
	busy := ws.busyBayMinutes + float64(ws.busyCount)*(now-ws.lastChange)
	return busy / (float64(len(ws.bays)) * now)
}
