// Scenario validation: shape, referential integrity and a shallow
// feasibility pass. Every problem is collected so a bad file reports
// all of its defects at once.

package scenario

import (
	"errors"
	"fmt"
)

var validCouplers = map[string]bool{
	CouplerScrew:  true,
	CouplerDAC:    true,
	CouplerHybrid: true,
	"":            false,
}

var validTrackSelection = map[string]bool{
	"":                true, // defaults to FIRST_AVAILABLE
	"FIRST_AVAILABLE": true,
	"LEAST_OCCUPIED":  true,
	"ROUND_ROBIN":     true,
	"RANDOM":          true,
}

var validRakeFormation = map[string]bool{
	"":                          true, // defaults to RETROFIT_TRACK_ALLOCATION
	"WORKSHOP_CAPACITY":         true,
	"RETROFIT_TRACK_ALLOCATION": true,
}

var validParkingModes = map[string]bool{
	"":                   true, // defaults to OPPORTUNISTIC
	"OPPORTUNISTIC":      true,
	"SMART_ACCUMULATION": true,
}

// Validate checks the scenario and returns every problem found, joined
// into one error. A nil return means the core can run it.
func (s *Scenario) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	trackIDs := make(map[string]string, len(s.Tracks)) // id -> type
	for i, t := range s.Tracks {
		if t.ID == "" {
			fail("tracks[%d]: missing id", i)
			continue
		}
		if _, dup := trackIDs[t.ID]; dup {
			fail("track %q: duplicate id", t.ID)
		}
		trackIDs[t.ID] = t.Type
		if !TrackTypes[t.Type] {
			fail("track %q: unknown type %q", t.ID, t.Type)
		}
		if t.Length <= 0 {
			fail("track %q: length must be positive, got %.1f", t.ID, t.Length)
		}
		if t.FillFactor < 0 || t.FillFactor > 1 {
			fail("track %q: fill_factor must be in (0,1], got %.2f", t.ID, t.FillFactor)
		}
		if t.MaxWagonCount < 0 {
			fail("track %q: max_wagon_count must be non-negative", t.ID)
		}
	}

	for _, r := range s.Routes {
		if _, ok := trackIDs[r.From]; !ok {
			fail("route %s->%s: unknown track %q", r.From, r.To, r.From)
		}
		if _, ok := trackIDs[r.To]; !ok {
			fail("route %s->%s: unknown track %q", r.From, r.To, r.To)
		}
		if r.Minutes < 0 {
			fail("route %s->%s: negative duration", r.From, r.To)
		}
	}

	workshopIDs := make(map[string]bool, len(s.Workshops))
	workshopTracks := make(map[string]string, len(s.Workshops)) // track -> workshop id
	for i, ws := range s.Workshops {
		if ws.ID == "" {
			fail("workshops[%d]: missing id", i)
			continue
		}
		if workshopIDs[ws.ID] {
			fail("workshop %q: duplicate id", ws.ID)
		}
		workshopIDs[ws.ID] = true
		if tt, ok := trackIDs[ws.Track]; !ok {
			fail("workshop %q: unknown track %q", ws.ID, ws.Track)
		} else if tt != "WORKSHOP" {
			fail("workshop %q: track %q has type %s, want WORKSHOP", ws.ID, ws.Track, tt)
		}
		// Workshop tracks are exclusive: capacity bookkeeping is keyed
		// by track, so two workshops on one track would shadow each
		// other.
		if other, taken := workshopTracks[ws.Track]; taken {
			fail("workshop %q: track %q already used by workshop %q", ws.ID, ws.Track, other)
		} else if ws.Track != "" {
			workshopTracks[ws.Track] = ws.ID
		}
		if ws.Bays <= 0 {
			fail("workshop %q: bays must be positive, got %d", ws.ID, ws.Bays)
		}
		if ws.RetrofitMinutes <= 0 {
			fail("workshop %q: retrofit_minutes must be positive, got %.1f", ws.ID, ws.RetrofitMinutes)
		}
	}

	locoIDs := make(map[string]bool, len(s.Locomotives))
	for i, l := range s.Locomotives {
		if l.ID == "" {
			fail("locomotives[%d]: missing id", i)
			continue
		}
		if locoIDs[l.ID] {
			fail("locomotive %q: duplicate id", l.ID)
		}
		locoIDs[l.ID] = true
		if _, ok := trackIDs[l.HomeTrack]; !ok {
			fail("locomotive %q: unknown home track %q", l.ID, l.HomeTrack)
		}
		if !validCouplers[l.CouplerFront] {
			fail("locomotive %q: invalid coupler_front %q", l.ID, l.CouplerFront)
		}
		if !validCouplers[l.CouplerBack] {
			fail("locomotive %q: invalid coupler_back %q", l.ID, l.CouplerBack)
		}
	}

	wagonIDs := make(map[string]bool, s.WagonCount())
	trainIDs := make(map[string]bool, len(s.Trains))
	for i, tr := range s.Trains {
		if tr.ID == "" {
			fail("trains[%d]: missing id", i)
			continue
		}
		if trainIDs[tr.ID] {
			fail("train %q: duplicate id", tr.ID)
		}
		trainIDs[tr.ID] = true
		if tr.ArrivalMinutes < 0 {
			fail("train %q: negative arrival time", tr.ID)
		}
		if len(tr.Wagons) == 0 {
			fail("train %q: empty consist", tr.ID)
		}
		for j, w := range tr.Wagons {
			if w.ID == "" {
				fail("train %q wagons[%d]: missing id", tr.ID, j)
				continue
			}
			if wagonIDs[w.ID] {
				fail("wagon %q: duplicate id", w.ID)
			}
			wagonIDs[w.ID] = true
			if w.Length <= 0 {
				fail("wagon %q: length must be positive, got %.1f", w.ID, w.Length)
			}
			if !validCouplers[w.CouplerA] {
				fail("wagon %q: invalid coupler_a %q", w.ID, w.CouplerA)
			}
			if !validCouplers[w.CouplerB] {
				fail("wagon %q: invalid coupler_b %q", w.ID, w.CouplerB)
			}
		}
	}

	if !validTrackSelection[s.Strategies.TrackSelection] {
		fail("strategies: unknown track_selection %q", s.Strategies.TrackSelection)
	}
	if !validRakeFormation[s.Strategies.RakeFormation] {
		fail("strategies: unknown rake_formation %q", s.Strategies.RakeFormation)
	}
	if !validParkingModes[s.Parking.Mode] {
		fail("parking: unknown mode %q", s.Parking.Mode)
	}

	// Feasibility: a yard that receives retrofit wagons needs the full
	// pipeline and at least one locomotive to move them.
	if s.retrofitWagonCount() > 0 {
		for _, tt := range []string{"COLLECTION", "RETROFIT", "WORKSHOP", "RETROFITTED", "PARKING"} {
			if len(s.TracksOfType(tt)) == 0 {
				fail("feasibility: retrofit wagons arrive but no %s track exists", tt)
			}
		}
		if len(s.Workshops) == 0 {
			fail("feasibility: retrofit wagons arrive but no workshop exists")
		}
		if len(s.Locomotives) == 0 {
			fail("feasibility: retrofit wagons arrive but no locomotive exists")
		}
	}

	return errors.Join(errs...)
}

func (s *Scenario) retrofitWagonCount() int {
	n := 0
	for _, tr := range s.Trains {
		for _, w := range tr.Wagons {
			if w.NeedsRetrofit {
				n++
			}
		}
	}
	return n
}
