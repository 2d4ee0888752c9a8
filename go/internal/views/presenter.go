package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/mcdev12/podracer/go/internal/models"
)

// Mounter swaps a rendered fragment into a mount point of the page.
// It is the only way a view reaches the browser.
type Mounter interface {
	RenderAt(ctx context.Context, target MountPoint, c templ.Component) error
}

// Page presents the race flow by rendering views into mount points
type Page struct {
	mounter Mounter
}

// NewPage creates a page presenter on top of a mounter
func NewPage(mounter Mounter) *Page {
	return &Page{mounter: mounter}
}

func (p *Page) ShowSelection(ctx context.Context, tracks []models.Track, racers []models.Racer) error {
	return p.mounter.RenderAt(ctx, MountRace, SelectionView(tracks, racers))
}

func (p *Page) ShowTracks(ctx context.Context, tracks []models.Track, selected *int) error {
	return p.mounter.RenderAt(ctx, MountTracks, TrackCards(tracks, selected))
}

func (p *Page) ShowRacers(ctx context.Context, racers []models.Racer, selected *int) error {
	return p.mounter.RenderAt(ctx, MountRacers, RacerCards(racers, selected))
}

func (p *Page) ShowRaceStart(ctx context.Context, track models.Track) error {
	return p.mounter.RenderAt(ctx, MountRace, RaceStartView(track))
}

func (p *Page) ShowCountdown(ctx context.Context, n int) error {
	return p.mounter.RenderAt(ctx, MountBigNumbers, Countdown(n))
}

func (p *Page) ShowLeaderboard(ctx context.Context, positions []models.Position, playerID *int) error {
	return p.mounter.RenderAt(ctx, MountLeaderBoard, Leaderboard(positions, playerID))
}

func (p *Page) ShowResults(ctx context.Context, positions []models.Position, playerID *int) error {
	return p.mounter.RenderAt(ctx, MountRace, Results(positions, playerID))
}
