package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkshop_AssignAndComplete(t *testing.T) {
	ws := NewWorkshop("ws-1", "track-1", 2, 45)

	bay1, err := ws.AssignToBay(0, "w1")
	require.NoError(t, err)
	bay2, err := ws.AssignToBay(0, "w2")
	require.NoError(t, err)
	assert.NotEqual(t, bay1, bay2)
	assert.Equal(t, 0, ws.IdleBays())

	// No third bay.
	_, err = ws.AssignToBay(0, "w3")
	assert.ErrorIs(t, err, ErrNoIdleBay)

	wagonID, err := ws.CompleteRetrofit(45, bay1)
	require.NoError(t, err)
	assert.Equal(t, "w1", wagonID)
	assert.Equal(t, 1, ws.IdleBays())
}

func TestWorkshop_CompleteIdleBay_Errors(t *testing.T) {
	ws := NewWorkshop("ws-1", "track-1", 1, 45)
	bay, err := ws.AssignToBay(0, "w1")
	require.NoError(t, err)

	_, err = ws.CompleteRetrofit(45, bay)
	require.NoError(t, err)

	// Completing the same bay again must surface the accounting bug.
	_, err = ws.CompleteRetrofit(50, bay)
	assert.ErrorIs(t, err, ErrBayAlreadyIdle)
}

func TestWorkshop_Utilization(t *testing.T) {
	// Two bays; one busy from t=0 to t=10. At t=10 the workshop has
	// delivered 10 busy-bay-minutes out of 20 possible.
	ws := NewWorkshop("ws-1", "track-1", 2, 45)
	_, err := ws.AssignToBay(0, "w1")
	require.NoError(t, err)
	_, err = ws.CompleteRetrofit(10, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, ws.Utilization(10), 1e-9)

	// Idle from t=10 to t=20 halves the ratio.
	assert.InDelta(t, 0.25, ws.Utilization(20), 1e-9)
}

func TestWorkshop_UtilizationCountsOpenAssignments(t *testing.T) {
	ws := NewWorkshop("ws-1", "track-1", 1, 45)
	_, err := ws.AssignToBay(5, "w1")
	require.NoError(t, err)

	// Still busy at t=15: 10 of 15 bay-minutes used.
	assert.InDelta(t, 10.0/15.0, ws.Utilization(15), 1e-9)
}
