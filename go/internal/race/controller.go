package race

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/internal/models"
	"github.com/mcdev12/podracer/go/internal/race/events"
	"github.com/mcdev12/podracer/go/internal/session"
)

var (
	ErrMissingSelection = errors.New("track and racer must both be selected")
	ErrRaceInProgress   = errors.New("a race is already in progress")
	ErrNoActiveRace     = errors.New("no active race")
)

// Presenter shows each stage of the race flow to the player
type Presenter interface {
	ShowSelection(ctx context.Context, tracks []models.Track, racers []models.Racer) error
	ShowTracks(ctx context.Context, tracks []models.Track, selected *int) error
	ShowRacers(ctx context.Context, racers []models.Racer, selected *int) error
	ShowRaceStart(ctx context.Context, track models.Track) error
	ShowCountdown(ctx context.Context, n int) error
	ShowLeaderboard(ctx context.Context, positions []models.Position, playerID *int) error
	ShowResults(ctx context.Context, positions []models.Position, playerID *int) error
}

// RaceAPI is the remote race service as seen by the controller
type RaceAPI interface {
	ListTracks(ctx context.Context) ([]models.Track, error)
	ListRacers(ctx context.Context) ([]models.Racer, error)
	CreateRace(ctx context.Context, playerID, trackID int) (*models.Race, error)
	FetchRace(ctx context.Context, raceID int) (*models.Race, error)
	StartRace(ctx context.Context, raceID int) error
	Accelerate(ctx context.Context, raceID int) error
}

// Options tunes the lifecycle timings
type Options struct {
	PollInterval   time.Duration
	CountdownDelay time.Duration
	CountdownTick  time.Duration
	// RaceIDOffset is added to the id returned on creation before it is used
	// for start, accelerate and polling calls.
	RaceIDOffset int
	Clock        clockwork.Clock
}

func DefaultOptions() Options {
	return Options{
		PollInterval:   500 * time.Millisecond,
		CountdownDelay: time.Second,
		CountdownTick:  time.Second,
		RaceIDOffset:   -1,
		Clock:          clockwork.NewRealClock(),
	}
}

// Controller drives one session through selection, countdown, racing and results
type Controller struct {
	api       RaceAPI
	presenter Presenter
	publisher events.Publisher
	state     *session.State
	opts      Options

	mu     sync.Mutex
	phase  Phase
	tracks []models.Track
	racers []models.Racer
}

// NewController creates a controller for a single session
func NewController(api RaceAPI, presenter Presenter, publisher events.Publisher, state *session.State, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if state == nil {
		state = session.NewState()
	}
	return &Controller{
		api:       api,
		presenter: presenter,
		publisher: publisher,
		state:     state,
		opts:      opts,
		phase:     PhaseSelecting,
	}
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) State() *session.State {
	return c.state
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	prev := c.phase
	c.phase = p
	c.mu.Unlock()

	log.Debug().
		Str("session_id", c.state.ID.String()).
		Str("from", prev.String()).
		Str("to", p.String()).
		Msg("race phase changed")
}

// Load fetches tracks and racers concurrently and renders both lists.
// A failed fetch is logged and leaves that list on its loading placeholder.
func (c *Controller) Load(ctx context.Context) {
	var (
		wg     sync.WaitGroup
		tracks []models.Track
		racers []models.Racer
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if tracks, err = c.api.ListTracks(ctx); err != nil {
			log.Error().Err(err).Str("session_id", c.state.ID.String()).Msg("failed to load tracks")
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if racers, err = c.api.ListRacers(ctx); err != nil {
			log.Error().Err(err).Str("session_id", c.state.ID.String()).Msg("failed to load racers")
		}
	}()
	wg.Wait()

	c.mu.Lock()
	c.tracks = tracks
	c.racers = racers
	c.mu.Unlock()

	snap := c.state.Snapshot()
	if err := c.presenter.ShowTracks(ctx, tracks, snap.TrackID); err != nil {
		log.Error().Err(err).Msg("failed to render tracks")
	}
	if err := c.presenter.ShowRacers(ctx, racers, snap.PlayerID); err != nil {
		log.Error().Err(err).Msg("failed to render racers")
	}
}

func (c *Controller) selectable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == PhaseSelecting || c.phase == PhaseFinished
}

// SelectTrack records the chosen track and re-renders the track list
func (c *Controller) SelectTrack(ctx context.Context, id int) error {
	if !c.selectable() {
		log.Debug().Int("track_id", id).Str("phase", c.Phase().String()).Msg("ignoring track selection")
		return nil
	}
	c.state.SelectTrack(id)

	c.mu.Lock()
	tracks := c.tracks
	c.mu.Unlock()
	return c.presenter.ShowTracks(ctx, tracks, &id)
}

// SelectRacer records the chosen racer and re-renders the racer list
func (c *Controller) SelectRacer(ctx context.Context, id int) error {
	if !c.selectable() {
		log.Debug().Int("racer_id", id).Str("phase", c.Phase().String()).Msg("ignoring racer selection")
		return nil
	}
	c.state.SelectPlayer(id)

	c.mu.Lock()
	racers := c.racers
	c.mu.Unlock()
	return c.presenter.ShowRacers(ctx, racers, &id)
}

// begin claims the session for a new race and returns the selection to race with
func (c *Controller) begin() (session.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseSelecting && c.phase != PhaseFinished {
		return session.Snapshot{}, ErrRaceInProgress
	}
	snap := c.state.Snapshot()
	if snap.TrackID == nil || snap.PlayerID == nil {
		return session.Snapshot{}, ErrMissingSelection
	}
	c.phase = PhaseCreating
	c.state.ClearRace()
	snap.RaceID = nil
	return snap, nil
}

// Submit starts the race lifecycle in the background. Only the checks that
// happen before any request is made are reported to the caller.
func (c *Controller) Submit(ctx context.Context) error {
	snap, err := c.begin()
	if err != nil {
		return err
	}

	go func() {
		if err := c.race(ctx, snap); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("session_id", c.state.ID.String()).Msg("race lifecycle ended with error")
		}
	}()
	return nil
}

// Run executes the whole lifecycle on the calling goroutine
func (c *Controller) Run(ctx context.Context) error {
	snap, err := c.begin()
	if err != nil {
		return err
	}
	return c.race(ctx, snap)
}

// Accelerate asks the service to speed up the player's racer
func (c *Controller) Accelerate(ctx context.Context) error {
	raceID, ok := c.state.RaceID()
	if !ok {
		return ErrNoActiveRace
	}
	if err := c.api.Accelerate(ctx, raceID); err != nil {
		log.Error().Err(err).Int("race_id", raceID).Msg("failed to accelerate")
		return err
	}
	return nil
}

// NewRace clears the session and returns to the selection view
func (c *Controller) NewRace(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseSelecting && c.phase != PhaseFinished {
		c.mu.Unlock()
		return ErrRaceInProgress
	}
	c.phase = PhaseSelecting
	tracks, racers := c.tracks, c.racers
	c.mu.Unlock()

	c.state.Reset()
	if err := c.presenter.ShowSelection(ctx, tracks, racers); err != nil {
		return err
	}
	if len(tracks) == 0 || len(racers) == 0 {
		go c.Load(ctx)
	}
	return nil
}

func (c *Controller) trackByID(id int) models.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tracks {
		if t.ID == id {
			return t
		}
	}
	return models.Track{ID: id}
}
