package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/OpenRailAssociation/dac-migration-dss-popupsim-sub003/sim"
	"github.com/OpenRailAssociation/dac-migration-dss-popupsim-sub003/sim/trace"
)

func TestTraceRecorder_MapsAllFields(t *testing.T) {
	log := trace.NewLog(trace.LevelEvents)
	rec := traceRecorder{log}

	rec.Record(sim.Event{
		Time:       12.5,
		Kind:       sim.EventWagonDelivered,
		Wagon:      "w1",
		Rake:       "rake-3",
		Track:      "retro-1",
		Locomotive: "loco-1",
		Detail:     "n=2",
	})

	require.Len(t, log.Events, 1)
	got := log.Events[0]
	assert.Equal(t, 12.5, got.Time)
	assert.Equal(t, "WagonDelivered", got.Kind)
	assert.Equal(t, "w1", got.Wagon)
	assert.Equal(t, "rake-3", got.Rake)
	assert.Equal(t, "retro-1", got.Track)
	assert.Equal(t, "loco-1", got.Locomotive)
	assert.Equal(t, "n=2", got.Detail)
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	s := trace.Summarize(nil)
	require.NoError(t, writeSummary(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded trace.Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 0, decoded.TotalEvents)
}
