// Package sim provides the discrete-event simulation engine for the
// pop-up retrofit workshop yard.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - scheduler.go: virtual clock, event queue, and the cooperative
//     Process/Timeout/Trigger primitives everything else builds on
//   - wagon.go: the wagon lifecycle (arrived → classified → retrofitted
//     → parked) and its guarded transitions
//   - simulation.go: scenario-to-yard wiring and the Run control surface
//
// # Architecture
//
// The kernel is domain-free: Scheduler, Process, Store, Resource, and
// Trigger know nothing about railways. The yard layer (tracks,
// workshops, locomotives, coupling) sits on top, and four coordinators
// drive the flow:
//   - coordinator_arrival.go: humps inbound trains wagon by wagon onto
//     collection tracks
//   - coordinator_collection.go: forms rakes and hauls them to workshops
//   - coordinator_workshop.go: batches wagons through retrofit bays
//   - coordinator_parking.go: clears retrofitted wagons onto parking tracks
//
// Sub-packages:
//   - sim/scenario/: YAML scenario loading and validation
//   - sim/trace/: event-trace recording and summaries
//
// # Determinism
//
// Everything runs on one virtual clock. Events at equal timestamps fire
// in scheduling order (a monotonic sequence number breaks ties), and
// all randomness flows through per-subsystem seeded streams, so a given
// scenario and seed always replays bit-for-bit.
package sim
