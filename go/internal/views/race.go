package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcdev12/podracer/go/internal/models"
)

// CountdownStart is the first value shown before the race starts
const CountdownStart = 3

// Countdown renders the value shown in the big-numbers element
func Countdown(n int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.printf(`%d`, n)
		return hw.err
	})
}

func countdownBlock(n int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.print(`<h2>Race Starts In...</h2><p id="big-numbers">`)
		hw.component(ctx, Countdown(n))
		hw.print(`</p>`)
		return hw.err
	})
}

// RaceStartView renders the race screen: countdown, directions and the accelerate button
func RaceStartView(track models.Track) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.printf(`<header><h1>Race: %s</h1></header>`, esc(track.Name))
		hw.print(`<main id="two-columns"><section id="leaderBoard">`)
		hw.component(ctx, countdownBlock(CountdownStart))
		hw.print(`</section><section id="accelerate"><h2>Directions</h2>`)
		hw.print(`<p>Click the button as fast as you can to make your racer go faster!</p>`)
		hw.printf(`<button id="gas-peddle" data-role="%s">Click Me To Win!</button>`, RoleAccelerate)
		hw.print(`</section></main><footer></footer>`)
		return hw.err
	})
}

// Leaderboard renders live standings ordered by descending segment.
// The row of playerID is marked; a player missing from the snapshot is fine.
func Leaderboard(positions []models.Position, playerID *int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.print(`<h3>Leaderboard</h3>`)
		hw.component(ctx, standings(models.ByLiveOrder(positions), playerID))
		return hw.err
	})
}

// Results renders the final standings ordered by finishing position
func Results(positions []models.Position, playerID *int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.print(`<header><h1>Race Results</h1></header><main>`)
		hw.component(ctx, standings(models.ByFinalOrder(positions), playerID))
		hw.printf(`<a href="/race" data-role="%s">Start a new race</a>`, RoleNewRace)
		hw.print(`</main>`)
		return hw.err
	})
}

func standings(ordered []models.Position, playerID *int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.print(`<table class="standings">`)
		for i, p := range ordered {
			name := p.DriverName
			class := ""
			if playerID != nil && p.DriverID == *playerID {
				name += " (you)"
				class = ` class="you"`
			}
			hw.printf(`<tr%s data-driver-id="%d"><td><h3>%d - %s</h3></td></tr>`, class, p.DriverID, i+1, esc(name))
		}
		hw.print(`</table>`)
		return hw.err
	})
}
