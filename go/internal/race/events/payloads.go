package events

import (
	"time"
)

// EventType represents the type of race lifecycle event
type EventType string

const (
	EventTypeRaceCreated  EventType = "RaceCreated"
	EventTypeRaceStarted  EventType = "RaceStarted"
	EventTypeRaceFinished EventType = "RaceFinished"
)

// RaceCreatedPayload is the payload for a RaceCreated event
type RaceCreatedPayload struct {
	RaceID    int       `json:"race_id"`
	TrackID   int       `json:"track_id"`
	TrackName string    `json:"track_name"`
	PlayerID  int       `json:"player_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RaceStartedPayload is the payload for a RaceStarted event
type RaceStartedPayload struct {
	RaceID    int       `json:"race_id"`
	StartedAt time.Time `json:"started_at"`
}

// RaceFinishedPayload is the payload for a RaceFinished event
type RaceFinishedPayload struct {
	RaceID         int       `json:"race_id"`
	PlayerID       int       `json:"player_id"`
	PlayerPosition *int      `json:"player_position,omitempty"`
	Racers         int       `json:"racers"`
	FinishedAt     time.Time `json:"finished_at"`
}
