package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcdev12/podracer/go/internal/dispatch"
	"github.com/mcdev12/podracer/go/internal/race"
	"github.com/mcdev12/podracer/go/internal/race/events"
	"github.com/mcdev12/podracer/go/internal/session"
	"github.com/mcdev12/podracer/go/internal/views"
)

// Session is the race flow behind one page
type Session interface {
	Load(ctx context.Context)
	Dispatch(ctx context.Context, a dispatch.Action) error
	Phase() race.Phase
}

// SessionFactory builds the session for a new connection, rendering through mounter
type SessionFactory func(id uuid.UUID, mounter views.Mounter) Session

type raceSession struct {
	*race.Controller
	dispatcher *dispatch.Dispatcher
}

func (s *raceSession) Dispatch(ctx context.Context, a dispatch.Action) error {
	return s.dispatcher.Dispatch(ctx, a)
}

// NewRaceSessionFactory returns a factory that gives every page its own controller and state
func NewRaceSessionFactory(api race.RaceAPI, publisher events.Publisher, opts race.Options) SessionFactory {
	return func(id uuid.UUID, mounter views.Mounter) Session {
		state := session.NewState()
		state.ID = id
		controller := race.NewController(api, views.NewPage(mounter), publisher, state, opts)
		return &raceSession{
			Controller: controller,
			dispatcher: dispatch.New(controller),
		}
	}
}
