package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcdev12/podracer/go/internal/models"
)

// TrackCards renders one card per track, or a loading placeholder when there are none.
// At most the card matching selected carries the selected class.
func TrackCards(tracks []models.Track, selected *int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		if len(tracks) == 0 {
			hw.print(`<h4>Loading Tracks...</h4>`)
			return hw.err
		}

		hw.print(`<ul class="cards">`)
		for _, t := range tracks {
			hw.printf(`<li class="%s" id="track-%d" data-role="%s" data-id="%d"><h3>%s</h3></li>`,
				cardClass(RoleTrack, t.ID, selected), t.ID, RoleTrack, t.ID, esc(t.Name))
		}
		hw.print(`</ul>`)
		return hw.err
	})
}

// RacerCards renders one card per racer, or a loading placeholder when there are none.
func RacerCards(racers []models.Racer, selected *int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		if len(racers) == 0 {
			hw.print(`<h4>Loading Racers...</h4>`)
			return hw.err
		}

		hw.print(`<ul class="cards">`)
		for _, r := range racers {
			hw.printf(`<li class="%s" id="racer-%d" data-role="%s" data-id="%d">`,
				cardClass("podracer", r.ID, selected), r.ID, RoleRacer, r.ID)
			hw.printf(`<h3>Driver Name: %s</h3>`, esc(r.DriverName))
			hw.printf(`<p>Top Speed: %d</p><p>Acceleration: %d</p><p>Handling: %d</p>`,
				r.TopSpeed, r.Acceleration, r.Handling)
			hw.print(`</li>`)
		}
		hw.print(`</ul>`)
		return hw.err
	})
}

func cardClass(kind string, id int, selected *int) string {
	if selected != nil && *selected == id {
		return "card " + kind + " selected"
	}
	return "card " + kind
}
