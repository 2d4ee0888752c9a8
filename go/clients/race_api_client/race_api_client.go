package race_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/podracer/go/clients"
	"github.com/mcdev12/podracer/go/internal/models"
)

type RaceApiClient struct {
	*clients.BaseClient
}

// NewRaceApiClient creates a client for the race service at baseURL.
// origin is sent as the Origin header when set, mirroring a browser CORS request.
func NewRaceApiClient(baseURL, origin string) *RaceApiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &RaceApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(ContentTypeHeader, ContentTypeJSON)
	if origin != "" {
		client.SetHeader(OriginHeader, origin)
	}

	return client
}

func (c *RaceApiClient) ListTracks(ctx context.Context) ([]models.Track, error) {
	body, err := c.Get(ctx, TracksEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracks: %w", err)
	}

	var response []Track
	if err := decode(body, &response); err != nil {
		return nil, fmt.Errorf("failed to get tracks: %w", err)
	}

	tracks := make([]models.Track, 0, len(response))
	for _, t := range response {
		tracks = append(tracks, t.toModel())
	}
	return tracks, nil
}

func (c *RaceApiClient) ListRacers(ctx context.Context) ([]models.Racer, error) {
	body, err := c.Get(ctx, CarsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get cars: %w", err)
	}

	var response []Car
	if err := decode(body, &response); err != nil {
		return nil, fmt.Errorf("failed to get cars: %w", err)
	}

	racers := make([]models.Racer, 0, len(response))
	for _, car := range response {
		racers = append(racers, car.toModel())
	}
	return racers, nil
}

func (c *RaceApiClient) CreateRace(ctx context.Context, playerID, trackID int) (*models.Race, error) {
	payload, err := json.Marshal(CreateRaceRequest{PlayerID: playerID, TrackID: trackID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create race request: %w", err)
	}

	body, err := c.Post(ctx, RacesEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create race: %w", err)
	}

	var response RaceResponse
	if err := decode(body, &response); err != nil {
		return nil, fmt.Errorf("failed to create race: %w", err)
	}

	race := response.toModel()
	if race.Status == "" {
		race.Status = models.RaceStatusPending
	}
	return &race, nil
}

func (c *RaceApiClient) FetchRace(ctx context.Context, raceID int) (*models.Race, error) {
	body, err := c.Get(ctx, fmt.Sprintf(RaceEndpoint, raceID))
	if err != nil {
		return nil, fmt.Errorf("failed to get race %d: %w", raceID, err)
	}

	var response RaceResponse
	if err := decode(body, &response); err != nil {
		return nil, fmt.Errorf("failed to get race %d: %w", raceID, err)
	}

	race := response.toModel()
	if race.ID == 0 {
		race.ID = raceID
	}
	return &race, nil
}

func (c *RaceApiClient) StartRace(ctx context.Context, raceID int) error {
	if _, err := c.Post(ctx, fmt.Sprintf(StartEndpoint, raceID), nil); err != nil {
		return fmt.Errorf("failed to start race %d: %w", raceID, err)
	}
	return nil
}

func (c *RaceApiClient) Accelerate(ctx context.Context, raceID int) error {
	if _, err := c.Post(ctx, fmt.Sprintf(AccelerateEndpoint, raceID), nil); err != nil {
		return fmt.Errorf("failed to accelerate race %d: %w", raceID, err)
	}
	return nil
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v, raw response: %s", clients.ErrMalformedPayload, err, string(body))
	}
	return nil
}
