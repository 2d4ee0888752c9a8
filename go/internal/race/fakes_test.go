package race

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/podracer/go/internal/models"
)

type fetchResult struct {
	race *models.Race
	err  error
}

type fakeAPI struct {
	mu sync.Mutex

	tracks    []models.Track
	racers    []models.Racer
	tracksErr error
	racersErr error
	created   *models.Race
	createErr error
	startErr  error
	accelErr  error
	fetches   []fetchResult
	// listGate, when set, holds ListTracks until it is closed
	listGate chan struct{}

	calls []string
}

func (f *fakeAPI) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListTracks(ctx context.Context) ([]models.Track, error) {
	f.record("list-tracks")
	if f.listGate != nil {
		select {
		case <-f.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.tracks, f.tracksErr
}

func (f *fakeAPI) ListRacers(ctx context.Context) ([]models.Racer, error) {
	f.record("list-racers")
	return f.racers, f.racersErr
}

func (f *fakeAPI) CreateRace(ctx context.Context, playerID, trackID int) (*models.Race, error) {
	f.record("create:%d:%d", playerID, trackID)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeAPI) FetchRace(ctx context.Context, raceID int) (*models.Race, error) {
	f.record("fetch:%d", raceID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.fetches) == 0 {
		return nil, errors.New("no scripted fetch")
	}
	next := f.fetches[0]
	if len(f.fetches) > 1 {
		f.fetches = f.fetches[1:]
	}
	return next.race, next.err
}

func (f *fakeAPI) StartRace(ctx context.Context, raceID int) error {
	f.record("start:%d", raceID)
	return f.startErr
}

func (f *fakeAPI) Accelerate(ctx context.Context, raceID int) error {
	f.record("accelerate:%d", raceID)
	return f.accelErr
}

type fakePresenter struct {
	mu     sync.Mutex
	shown  []string
	tracks []*int
	racers []*int
}

func (p *fakePresenter) add(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, s)
}

func (p *fakePresenter) Shown() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.shown...)
}

func (p *fakePresenter) ShowSelection(ctx context.Context, tracks []models.Track, racers []models.Racer) error {
	p.add("selection")
	return nil
}

func (p *fakePresenter) ShowTracks(ctx context.Context, tracks []models.Track, selected *int) error {
	p.mu.Lock()
	p.tracks = append(p.tracks, selected)
	p.mu.Unlock()
	p.add(fmt.Sprintf("tracks:%d", len(tracks)))
	return nil
}

func (p *fakePresenter) ShowRacers(ctx context.Context, racers []models.Racer, selected *int) error {
	p.mu.Lock()
	p.racers = append(p.racers, selected)
	p.mu.Unlock()
	p.add(fmt.Sprintf("racers:%d", len(racers)))
	return nil
}

func (p *fakePresenter) ShowRaceStart(ctx context.Context, track models.Track) error {
	p.add("start:" + track.Name)
	return nil
}

func (p *fakePresenter) ShowCountdown(ctx context.Context, n int) error {
	p.add(fmt.Sprintf("countdown:%d", n))
	return nil
}

func (p *fakePresenter) ShowLeaderboard(ctx context.Context, positions []models.Position, playerID *int) error {
	p.add(fmt.Sprintf("leaderboard:%d", len(positions)))
	return nil
}

func (p *fakePresenter) ShowResults(ctx context.Context, positions []models.Position, playerID *int) error {
	p.add(fmt.Sprintf("results:%d", len(positions)))
	return nil
}

// driveClock advances the fake clock each time the controller blocks on it,
// until run returns.
func driveClock(t *testing.T, fc *clockwork.FakeClock, step time.Duration, run func() error) error {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- run() }()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-done:
			return err
		case <-deadline:
			t.Fatal("race lifecycle did not finish")
			return nil
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		err := fc.BlockUntilContext(ctx, 1)
		cancel()
		if err == nil {
			fc.Advance(step)
		}
	}
}

func newTestController(api *fakeAPI, presenter *fakePresenter, fc *clockwork.FakeClock) *Controller {
	opts := DefaultOptions()
	opts.Clock = fc
	return NewController(api, presenter, nil, nil, opts)
}

func intPtr(i int) *int { return &i }

func requireEventuallyShown(t *testing.T, p *fakePresenter, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, s := range p.Shown() {
			if s == want {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond, "expected %q to be shown", want)
}
