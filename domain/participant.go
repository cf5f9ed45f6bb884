// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Broadcast is the reserved destination meaning "everyone in the room".
// It can never be used as a participant name.
const Broadcast = "Todos"

// Participant is one connected user and the last time we heard from them.
// Name is the primary key and is compared case-sensitively.
type Participant struct {
	Name     string
	LastSeen time.Time
}

// IsStale reports whether the participant has been silent for at least timeout as of now.
func (p Participant) IsStale(now time.Time, timeout time.Duration) bool {
	return now.Sub(p.LastSeen) >= timeout
}

// IsReservedName reports whether name collides with a reserved destination.
func IsReservedName(name string) bool {
	return name == Broadcast
}

// NextLastSeen returns the heartbeat timestamp to store after previous.
// Timestamps are kept at millisecond precision and must strictly increase,
// so a clock that did not move forward still yields previous+1ms.
func NextLastSeen(previous, now time.Time) time.Time {
	now = now.Truncate(time.Millisecond)
	if !now.After(previous) {
		return previous.Add(time.Millisecond)
	}
	return now
}
