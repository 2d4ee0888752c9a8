package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mcdev12/podracer/go/internal/models"
)

const (
	headerPosition = "#"
	headerDriver   = "Driver"
	headerSegment  = "Segment"
)

// Presenter prints the race flow as terminal tables
type Presenter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

func (p *Presenter) render(t table.Writer, title string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A table title wraps to the table width, so it is printed on its own line.
	if title != "" {
		if _, err := fmt.Fprintln(p.out, title); err != nil {
			return err
		}
	}
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func (p *Presenter) println(format string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := fmt.Fprintf(p.out, format+"\n", args...)
	return err
}

func marker(id int, selected *int) string {
	if selected != nil && *selected == id {
		return "*"
	}
	return ""
}

func (p *Presenter) ShowSelection(ctx context.Context, tracks []models.Track, racers []models.Racer) error {
	if err := p.println("Create a Race"); err != nil {
		return err
	}
	if err := p.ShowTracks(ctx, tracks, nil); err != nil {
		return err
	}
	return p.ShowRacers(ctx, racers, nil)
}

func (p *Presenter) ShowTracks(ctx context.Context, tracks []models.Track, selected *int) error {
	if len(tracks) == 0 {
		return p.println("Loading Tracks...")
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"", "ID", "Track"})
	for _, track := range tracks {
		t.AppendRow(table.Row{marker(track.ID, selected), track.ID, track.Name})
	}
	return p.render(t, "Tracks")
}

func (p *Presenter) ShowRacers(ctx context.Context, racers []models.Racer, selected *int) error {
	if len(racers) == 0 {
		return p.println("Loading Racers...")
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"", "ID", headerDriver, "Top Speed", "Acceleration", "Handling"})
	for _, r := range racers {
		t.AppendRow(table.Row{marker(r.ID, selected), r.ID, r.DriverName, r.TopSpeed, r.Acceleration, r.Handling})
	}
	return p.render(t, "Racers")
}

func (p *Presenter) ShowRaceStart(ctx context.Context, track models.Track) error {
	return p.println("Race: %s\nThe race will begin in 3", track.Name)
}

func (p *Presenter) ShowCountdown(ctx context.Context, n int) error {
	return p.println("%d", n)
}

func (p *Presenter) ShowLeaderboard(ctx context.Context, positions []models.Position, playerID *int) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{headerPosition, headerDriver, headerSegment})
	for i, pos := range models.ByLiveOrder(positions) {
		t.AppendRow(table.Row{i + 1, driverName(pos, playerID), pos.Segment})
	}
	return p.render(t, "Leaderboard")
}

func (p *Presenter) ShowResults(ctx context.Context, positions []models.Position, playerID *int) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{headerPosition, headerDriver})
	for i, pos := range models.ByFinalOrder(positions) {
		t.AppendRow(table.Row{i + 1, driverName(pos, playerID)})
	}
	return p.render(t, "Race Results")
}

func driverName(pos models.Position, playerID *int) string {
	if playerID != nil && pos.DriverID == *playerID {
		return pos.DriverName + " (you)"
	}
	return pos.DriverName
}
