package race

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/podracer/go/internal/models"
	"github.com/mcdev12/podracer/go/internal/race/events"
)

func racingAPI() *fakeAPI {
	return &fakeAPI{
		tracks:  []models.Track{{ID: 1, Name: "Boonta Eve"}, {ID: 2, Name: "Malastare"}},
		racers:  []models.Racer{{ID: 1, DriverName: "Anakin"}, {ID: 2, DriverName: "Sebulba"}},
		created: &models.Race{ID: 5, Track: models.Track{ID: 2, Name: "Malastare"}, PlayerID: 1},
	}
}

func TestController_Load(t *testing.T) {
	api := racingAPI()
	p := &fakePresenter{}
	c := newTestController(api, p, clockwork.NewFakeClock())

	c.Load(context.Background())

	assert.ElementsMatch(t, []string{"list-tracks", "list-racers"}, api.Calls())
	assert.Equal(t, []string{"tracks:2", "racers:2"}, p.Shown())
}

func TestController_LoadFailureKeepsPlaceholder(t *testing.T) {
	api := racingAPI()
	api.tracksErr = errors.New("boom")
	api.tracks = nil
	p := &fakePresenter{}
	c := newTestController(api, p, clockwork.NewFakeClock())

	c.Load(context.Background())

	assert.Equal(t, []string{"tracks:0", "racers:2"}, p.Shown())
}

func TestController_SelectReplacesPriorChoice(t *testing.T) {
	api := racingAPI()
	p := &fakePresenter{}
	c := newTestController(api, p, clockwork.NewFakeClock())
	ctx := context.Background()
	c.Load(ctx)

	require.NoError(t, c.SelectTrack(ctx, 1))
	require.NoError(t, c.SelectTrack(ctx, 2))
	require.NoError(t, c.SelectRacer(ctx, 1))

	snap := c.State().Snapshot()
	require.NotNil(t, snap.TrackID)
	require.NotNil(t, snap.PlayerID)
	assert.Equal(t, 2, *snap.TrackID)
	assert.Equal(t, 1, *snap.PlayerID)

	require.Len(t, p.tracks, 3)
	assert.Equal(t, intPtr(2), p.tracks[2])
}

func TestController_SubmitWithoutSelection(t *testing.T) {
	tests := []struct {
		name   string
		track  *int
		player *int
	}{
		{name: "nothing selected"},
		{name: "track only", track: intPtr(1)},
		{name: "racer only", player: intPtr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := racingAPI()
			c := newTestController(api, &fakePresenter{}, clockwork.NewFakeClock())
			if tt.track != nil {
				c.State().SelectTrack(*tt.track)
			}
			if tt.player != nil {
				c.State().SelectPlayer(*tt.player)
			}

			err := c.Submit(context.Background())
			assert.ErrorIs(t, err, ErrMissingSelection)
			assert.Empty(t, api.Calls())
			assert.Equal(t, PhaseSelecting, c.Phase())
		})
	}
}

func TestController_RunFullRace(t *testing.T) {
	api := racingAPI()
	api.fetches = []fetchResult{
		{race: &models.Race{Status: models.RaceStatusPending, Positions: make([]models.Position, 2)}},
		{race: &models.Race{Status: models.RaceStatusInProgress, Positions: make([]models.Position, 2)}},
		{err: errors.New("temporary")},
		{race: &models.Race{Status: models.RaceStatusFinished, Positions: make([]models.Position, 2)}},
	}
	p := &fakePresenter{}
	fc := clockwork.NewFakeClock()
	c := newTestController(api, p, fc)
	c.State().SelectTrack(2)
	c.State().SelectPlayer(1)

	err := driveClock(t, fc, time.Second, func() error { return c.Run(context.Background()) })
	require.NoError(t, err)

	assert.Equal(t, []string{
		"start:Malastare",
		"countdown:2",
		"countdown:1",
		"countdown:0",
		"leaderboard:2",
		"leaderboard:2",
		"results:2",
	}, p.Shown())

	assert.Equal(t, []string{
		"create:1:2",
		"start:4",
		"fetch:4",
		"fetch:4",
		"fetch:4",
		"fetch:4",
	}, api.Calls())

	assert.Equal(t, PhaseFinished, c.Phase())
	raceID, ok := c.State().RaceID()
	require.True(t, ok)
	assert.Equal(t, 4, raceID)
}

func TestController_NoFetchAfterFinished(t *testing.T) {
	api := racingAPI()
	api.fetches = []fetchResult{
		{race: &models.Race{Status: models.RaceStatusFinished}},
	}
	fc := clockwork.NewFakeClock()
	c := newTestController(api, &fakePresenter{}, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	require.NoError(t, driveClock(t, fc, time.Second, func() error { return c.Run(context.Background()) }))
	fc.Advance(10 * time.Second)

	fetches := 0
	for _, call := range api.Calls() {
		if call == "fetch:4" {
			fetches++
		}
	}
	assert.Equal(t, 1, fetches)
}

func TestController_CountdownTiming(t *testing.T) {
	api := racingAPI()
	api.fetches = []fetchResult{{race: &models.Race{Status: models.RaceStatusFinished}}}
	p := &fakePresenter{}
	fc := clockwork.NewFakeClock()
	c := newTestController(api, p, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Submit(ctx))

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(999 * time.Millisecond)
	assert.Equal(t, []string{"start:Malastare"}, p.Shown())

	fc.Advance(time.Millisecond)
	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	assert.Equal(t, []string{"start:Malastare"}, p.Shown())

	fc.Advance(time.Second)
	requireEventuallyShown(t, p, "countdown:2")
	assert.Equal(t, PhaseCountdown, c.Phase())
}

func TestController_CreateFailureAbortsRace(t *testing.T) {
	api := racingAPI()
	api.createErr = errors.New("service unavailable")
	p := &fakePresenter{}
	fc := clockwork.NewFakeClock()
	c := newTestController(api, p, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, api.createErr)

	assert.Empty(t, p.Shown())
	assert.Equal(t, []string{"create:1:1"}, api.Calls())
	assert.Equal(t, PhaseSelecting, c.Phase())
	_, ok := c.State().RaceID()
	assert.False(t, ok)
}

func TestController_StartFailureStillPolls(t *testing.T) {
	api := racingAPI()
	api.startErr = errors.New("already started")
	api.fetches = []fetchResult{{race: &models.Race{Status: models.RaceStatusFinished}}}
	fc := clockwork.NewFakeClock()
	c := newTestController(api, &fakePresenter{}, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	require.NoError(t, driveClock(t, fc, time.Second, func() error { return c.Run(context.Background()) }))
	assert.Contains(t, api.Calls(), "fetch:4")
	assert.Equal(t, PhaseFinished, c.Phase())
}

func TestController_RaceIDOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{name: "default offset", offset: -1, want: 4},
		{name: "verbatim id", offset: 0, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := racingAPI()
			api.fetches = []fetchResult{{race: &models.Race{Status: models.RaceStatusFinished}}}
			fc := clockwork.NewFakeClock()
			opts := DefaultOptions()
			opts.Clock = fc
			opts.RaceIDOffset = tt.offset
			c := NewController(api, &fakePresenter{}, nil, nil, opts)
			c.State().SelectTrack(1)
			c.State().SelectPlayer(1)

			require.NoError(t, driveClock(t, fc, time.Second, func() error { return c.Run(context.Background()) }))

			raceID, ok := c.State().RaceID()
			require.True(t, ok)
			assert.Equal(t, tt.want, raceID)
			require.NoError(t, c.Accelerate(context.Background()))
			assert.Contains(t, api.Calls(), "accelerate:"+strconv.Itoa(tt.want))
		})
	}
}

func TestController_DoubleSubmit(t *testing.T) {
	api := racingAPI()
	fc := clockwork.NewFakeClock()
	c := newTestController(api, &fakePresenter{}, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, c.Submit(ctx))
	assert.ErrorIs(t, c.Submit(ctx), ErrRaceInProgress)
	assert.ErrorIs(t, c.NewRace(ctx), ErrRaceInProgress)
}

func TestController_SelectionIgnoredDuringRace(t *testing.T) {
	api := racingAPI()
	fc := clockwork.NewFakeClock()
	c := newTestController(api, &fakePresenter{}, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Submit(ctx))
	require.NoError(t, fc.BlockUntilContext(ctx, 1))

	require.NoError(t, c.SelectTrack(ctx, 2))
	snap := c.State().Snapshot()
	assert.Equal(t, 1, *snap.TrackID)
}

func TestController_CancelStopsRace(t *testing.T) {
	api := racingAPI()
	api.fetches = []fetchResult{{race: &models.Race{Status: models.RaceStatusInProgress}}}
	fc := clockwork.NewFakeClock()
	c := newTestController(api, &fakePresenter{}, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("race did not stop on cancellation")
	}
	assert.Equal(t, PhaseSelecting, c.Phase())
}

func TestController_AccelerateWithoutRace(t *testing.T) {
	api := racingAPI()
	c := newTestController(api, &fakePresenter{}, clockwork.NewFakeClock())

	assert.ErrorIs(t, c.Accelerate(context.Background()), ErrNoActiveRace)
	assert.Empty(t, api.Calls())
}

func TestController_AccelerateFailureReturned(t *testing.T) {
	api := racingAPI()
	api.accelErr = errors.New("race over")
	c := newTestController(api, &fakePresenter{}, clockwork.NewFakeClock())
	c.State().SetRace(9)

	assert.ErrorIs(t, c.Accelerate(context.Background()), api.accelErr)
}

func TestController_NewRace(t *testing.T) {
	api := racingAPI()
	p := &fakePresenter{}
	c := newTestController(api, p, clockwork.NewFakeClock())
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)
	c.State().SetRace(4)

	require.NoError(t, c.NewRace(context.Background()))

	snap := c.State().Snapshot()
	assert.Nil(t, snap.TrackID)
	assert.Nil(t, snap.PlayerID)
	assert.Nil(t, snap.RaceID)
	// Nothing loaded yet, so the lists are fetched again in the background.
	require.Eventually(t, func() bool {
		return len(p.Shown()) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"selection", "tracks:2", "racers:2"}, p.Shown())
}

func TestController_NewRaceDoesNotWaitForReload(t *testing.T) {
	api := racingAPI()
	api.listGate = make(chan struct{})
	p := &fakePresenter{}
	c := newTestController(api, p, clockwork.NewFakeClock())

	returned := make(chan error, 1)
	go func() { returned <- c.NewRace(context.Background()) }()

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("NewRace blocked on loading the lists")
	}
	assert.Equal(t, []string{"selection"}, p.Shown())

	close(api.listGate)
	requireEventuallyShown(t, p, "tracks:2")
}

func TestController_ResubmitClearsFinishedRace(t *testing.T) {
	api := racingAPI()
	api.fetches = []fetchResult{{race: &models.Race{Status: models.RaceStatusFinished}}}
	fc := clockwork.NewFakeClock()
	c := newTestController(api, &fakePresenter{}, fc)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	require.NoError(t, driveClock(t, fc, time.Second, func() error { return c.Run(context.Background()) }))
	require.Equal(t, PhaseFinished, c.Phase())

	api.createErr = errors.New("service unavailable")
	require.Error(t, c.Run(context.Background()))

	_, ok := c.State().RaceID()
	assert.False(t, ok)
	assert.ErrorIs(t, c.Accelerate(context.Background()), ErrNoActiveRace)
	assert.NotContains(t, api.Calls(), "accelerate:4")
}

type recordingPublisher struct {
	types []events.EventType
}

func (r *recordingPublisher) Publish(ctx context.Context, sessionID uuid.UUID, eventType events.EventType, payload any) error {
	r.types = append(r.types, eventType)
	return nil
}

func TestController_PublishesLifecycleEvents(t *testing.T) {
	api := racingAPI()
	api.fetches = []fetchResult{{race: &models.Race{
		Status:    models.RaceStatusFinished,
		Positions: []models.Position{{DriverID: 1, FinalPosition: intPtr(2)}, {DriverID: 2, FinalPosition: intPtr(1)}},
	}}}
	pub := &recordingPublisher{}
	fc := clockwork.NewFakeClock()
	opts := DefaultOptions()
	opts.Clock = fc
	c := NewController(api, &fakePresenter{}, pub, nil, opts)
	c.State().SelectTrack(1)
	c.State().SelectPlayer(1)

	require.NoError(t, driveClock(t, fc, time.Second, func() error { return c.Run(context.Background()) }))

	assert.Equal(t, []events.EventType{
		events.EventTypeRaceCreated,
		events.EventTypeRaceStarted,
		events.EventTypeRaceFinished,
	}, pub.types)
}

func TestFinishedPayload(t *testing.T) {
	final := &models.Race{Positions: []models.Position{
		{DriverID: 3, FinalPosition: intPtr(1)},
		{DriverID: 1, FinalPosition: intPtr(2)},
	}}
	payload := finishedPayload(final, 4, 1, time.Unix(0, 0))
	require.NotNil(t, payload.PlayerPosition)
	assert.Equal(t, 2, *payload.PlayerPosition)
	assert.Equal(t, 2, payload.Racers)

	missing := finishedPayload(final, 4, 7, time.Unix(0, 0))
	assert.Nil(t, missing.PlayerPosition)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "polling", PhasePolling.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
