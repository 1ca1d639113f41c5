package trace

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestLog_Append_RespectsLevel(t *testing.T) {
	// GIVEN a disabled log and an enabled one
	off := NewLog(LevelNone)
	on := NewLog(LevelEvents)
	rec := EventRecord{Time: 1.5, Kind: "TrainArrived", Train: "t1"}

	// WHEN the same record is appended to both
	off.Append(rec)
	on.Append(rec)

	// THEN only the enabled log kept it
	if len(off.Events) != 0 {
		t.Errorf("disabled log kept %d events, want 0", len(off.Events))
	}
	if len(on.Events) != 1 {
		t.Errorf("enabled log kept %d events, want 1", len(on.Events))
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range []string{"", "none", "events"} {
		if !IsValidLevel(level) {
			t.Errorf("IsValidLevel(%q): got false, want true", level)
		}
	}
	if IsValidLevel("verbose") {
		t.Error(`IsValidLevel("verbose"): got true, want false`)
	}
}

func TestLog_WriteJSON_RoundTrips(t *testing.T) {
	// GIVEN a log with two events
	l := NewLog(LevelEvents)
	l.Append(EventRecord{Time: 0, Kind: "TrainArrived", Train: "t1"})
	l.Append(EventRecord{Time: 5, Kind: "WagonDelivered", Wagon: "w1", Track: "retro-1"})

	// WHEN written as JSON
	var buf bytes.Buffer
	if err := l.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	// THEN it decodes back to the same records
	var got []EventRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(got) != 2 || got[1].Wagon != "w1" || got[1].Track != "retro-1" {
		t.Errorf("round trip: got %+v", got)
	}
}

func TestLog_WriteFile(t *testing.T) {
	l := NewLog(LevelEvents)
	l.Append(EventRecord{Time: 0, Kind: "TrainArrived"})

	path := filepath.Join(t.TempDir(), "trace.json")
	if err := l.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
