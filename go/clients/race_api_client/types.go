package race_api_client

import "github.com/mcdev12/podracer/go/internal/models"

type Track struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Car struct {
	ID           int    `json:"id"`
	DriverName   string `json:"driver_name"`
	TopSpeed     int    `json:"top_speed"`
	Acceleration int    `json:"acceleration"`
	Handling     int    `json:"handling"`
}

type Position struct {
	ID            int    `json:"id"`
	DriverName    string `json:"driver_name"`
	Segment       int    `json:"segment"`
	FinalPosition *int   `json:"final_position,omitempty"`
}

type RaceResults struct {
	Status    string     `json:"status"`
	Positions []Position `json:"positions"`
}

// RaceResponse covers both shapes the service answers with: the created race
// (capitalised keys, snapshot nested under Results) and the flat snapshot.
type RaceResponse struct {
	ID        int          `json:"ID"`
	Track     Track        `json:"Track"`
	PlayerID  int          `json:"PlayerID"`
	Results   *RaceResults `json:"Results,omitempty"`
	Status    string       `json:"status"`
	Positions []Position   `json:"positions"`
}

type CreateRaceRequest struct {
	PlayerID int `json:"player_id"`
	TrackID  int `json:"track_id"`
}

func (t Track) toModel() models.Track {
	return models.Track{ID: t.ID, Name: t.Name}
}

func (c Car) toModel() models.Racer {
	return models.Racer{
		ID:           c.ID,
		DriverName:   c.DriverName,
		TopSpeed:     c.TopSpeed,
		Acceleration: c.Acceleration,
		Handling:     c.Handling,
	}
}

func (r RaceResponse) toModel() models.Race {
	status, positions := r.Status, r.Positions
	if r.Results != nil && status == "" {
		status, positions = r.Results.Status, r.Results.Positions
	}

	race := models.Race{
		ID:        r.ID,
		Track:     r.Track.toModel(),
		PlayerID:  r.PlayerID,
		Status:    models.RaceStatus(status),
		Positions: make([]models.Position, 0, len(positions)),
	}
	for _, p := range positions {
		race.Positions = append(race.Positions, models.Position{
			DriverID:      p.ID,
			DriverName:    p.DriverName,
			Segment:       p.Segment,
			FinalPosition: p.FinalPosition,
		})
	}
	return race
}
