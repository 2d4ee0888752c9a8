package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcdev12/podracer/go/internal/models"
)

// ScriptPath is where the browser script is served from
const ScriptPath = "/assets/app.js"

// SelectionView renders the race setup form with the track and racer lists
func SelectionView(tracks []models.Track, racers []models.Racer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.print(`<header><h1>Create a Race</h1></header><main><form>`)
		hw.print(`<h2>Select a Track</h2><section id="tracks">`)
		hw.component(ctx, TrackCards(tracks, nil))
		hw.print(`</section><h2>Select a Racer</h2><section id="racers">`)
		hw.component(ctx, RacerCards(racers, nil))
		hw.print(`</section>`)
		hw.printf(`<button id="submit-create-race" type="submit" data-role="%s">Start Race</button>`, RoleSubmit)
		hw.print(`</form></main>`)
		return hw.err
	})
}

// Home renders the page shell. Its content is filled in over the session websocket.
func Home(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(w)
		hw.print(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.printf(`<title>%s</title>`, esc(title))
		hw.printf(`<script src="%s" defer></script>`, ScriptPath)
		hw.print(`</head><body><section id="race">`)
		hw.component(ctx, SelectionView(nil, nil))
		hw.print(`</section></body></html>`)
		return hw.err
	})
}
