package models

import "sort"

// RaceStatus defines the status of a race.
type RaceStatus string

const (
	RaceStatusPending    RaceStatus = "pending"
	RaceStatusInProgress RaceStatus = "in-progress"
	RaceStatusFinished   RaceStatus = "finished"
)

// Race is one snapshot of a race as reported by the race service.
// The client never owns a race; it only holds the latest snapshot.
type Race struct {
	ID        int        `json:"id"`
	Track     Track      `json:"track"`
	PlayerID  int        `json:"player_id"`
	Status    RaceStatus `json:"status"`
	Positions []Position `json:"positions"`
}

// IsFinished reports whether the race has concluded
func (r Race) IsFinished() bool {
	return r.Status == RaceStatusFinished
}

// Position is a racer's standing within a snapshot.
// FinalPosition is only meaningful once the race is finished.
type Position struct {
	DriverID      int    `json:"id"`
	DriverName    string `json:"driver_name"`
	Segment       int    `json:"segment"`
	FinalPosition *int   `json:"final_position,omitempty"`
}

// ByLiveOrder returns a copy of positions ordered by descending segment.
// Ties keep their original order.
func ByLiveOrder(positions []Position) []Position {
	out := make([]Position, len(positions))
	copy(out, positions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Segment > out[j].Segment
	})
	return out
}

// ByFinalOrder returns a copy of positions ordered by ascending final position.
// Racers without a final position are placed last, keeping their original order.
func ByFinalOrder(positions []Position) []Position {
	out := make([]Position, len(positions))
	copy(out, positions)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].FinalPosition, out[j].FinalPosition
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out
}
