package trace

import (
	"encoding/json"
	"io"
	"os"
)

// Level controls the verbosity of event tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelEvents captures every yard event.
	LevelEvents Level = "events"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:   true,
	LevelEvents: true,
	"":          true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Log collects event records during a simulation run.
type Log struct {
	Level  Level
	Events []EventRecord
}

// NewLog creates a Log ready for recording.
func NewLog(level Level) *Log {
	return &Log{
		Level:  level,
		Events: make([]EventRecord, 0),
	}
}

// Append adds one event record. No-op when tracing is disabled.
func (l *Log) Append(rec EventRecord) {
	if l.Level == LevelNone || l.Level == "" {
		return
	}
	l.Events = append(l.Events, rec)
}

// WriteJSON writes the full event log as indented JSON.
func (l *Log) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l.Events)
}

// WriteFile writes the event log to the given path.
func (l *Log) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return l.WriteJSON(f)
}
