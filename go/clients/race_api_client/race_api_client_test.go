package race_api_client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/podracer/go/clients"
	"github.com/mcdev12/podracer/go/internal/models"
)

type recordedRequest struct {
	method string
	path   string
	body   string
	header http.Header
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*RaceApiClient, func() []recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			body:   string(body),
			header: r.Header.Clone(),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	snapshot := func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
	return NewRaceApiClient(srv.URL, "http://localhost:3000"), snapshot
}

func TestRaceApiClient_ListTracks(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Track 1","segments":[1,2]},{"id":2,"name":"Track 2"}]`))
	})

	tracks, err := client.ListTracks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Track{{ID: 1, Name: "Track 1"}, {ID: 2, Name: "Track 2"}}, tracks)

	require.Len(t, requests(), 1)
	req := requests()[0]
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, TracksEndpoint, req.path)
	assert.Equal(t, ContentTypeJSON, req.header.Get(ContentTypeHeader))
	assert.Equal(t, "http://localhost:3000", req.header.Get(OriginHeader))
}

func TestRaceApiClient_ListRacers(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, CarsEndpoint, r.URL.Path)
		w.Write([]byte(`[{"id":3,"driver_name":"Racer 3","top_speed":500,"acceleration":10,"handling":20}]`))
	})

	racers, err := client.ListRacers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Racer{{ID: 3, DriverName: "Racer 3", TopSpeed: 500, Acceleration: 10, Handling: 20}}, racers)
}

func TestRaceApiClient_CreateRace(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"ID": 7,
			"Track": {"id": 2, "name": "Track 2"},
			"PlayerID": 4,
			"Results": {"status": "unstarted", "positions": [{"id": 4, "driver_name": "Racer 4", "segment": 0}]}
		}`))
	})

	race, err := client.CreateRace(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, race.ID)
	assert.Equal(t, models.Track{ID: 2, Name: "Track 2"}, race.Track)
	assert.Equal(t, 4, race.PlayerID)
	require.Len(t, race.Positions, 1)
	assert.Equal(t, "Racer 4", race.Positions[0].DriverName)

	require.Len(t, requests(), 1)
	req := requests()[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, RacesEndpoint, req.path)

	var body CreateRaceRequest
	require.NoError(t, json.Unmarshal([]byte(req.body), &body))
	assert.Equal(t, CreateRaceRequest{PlayerID: 4, TrackID: 2}, body)
}

func TestRaceApiClient_FetchRace(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"finished","positions":[
			{"id":1,"driver_name":"Racer 1","segment":201,"final_position":2},
			{"id":2,"driver_name":"Racer 2","segment":201,"final_position":1}
		]}`))
	})

	race, err := client.FetchRace(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, "/api/races/6", requests()[0].path)
	assert.Equal(t, 6, race.ID)
	assert.True(t, race.IsFinished())
	require.Len(t, race.Positions, 2)
	require.NotNil(t, race.Positions[1].FinalPosition)
	assert.Equal(t, 1, *race.Positions[1].FinalPosition)
}

func TestRaceApiClient_StartAndAccelerate(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.StartRace(context.Background(), 3))
	require.NoError(t, client.Accelerate(context.Background(), 3))

	require.Len(t, requests(), 2)
	assert.Equal(t, "/api/races/3/start", requests()[0].path)
	assert.Equal(t, "/api/races/3/accelerate", requests()[1].path)
	assert.Equal(t, http.MethodPost, requests()[1].method)
}

func TestRaceApiClient_Errors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such race", http.StatusNotFound)
		})

		_, err := client.FetchRace(context.Background(), 99)
		require.Error(t, err)
		var statusErr *clients.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("malformed payload", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		})

		_, err := client.ListTracks(context.Background())
		assert.ErrorIs(t, err, clients.ErrMalformedPayload)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := NewRaceApiClient(srv.URL, "")

		err := client.StartRace(context.Background(), 1)
		require.Error(t, err)
		var statusErr *clients.StatusError
		assert.False(t, errors.As(err, &statusErr))
		assert.NotErrorIs(t, err, clients.ErrMalformedPayload)
	})
}

func TestNewRaceApiClient_BaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewRaceApiClient("", "").BaseURL())
	assert.Equal(t, "http://race.internal:9000", NewRaceApiClient("http://race.internal:9000", "").BaseURL())
}
