package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/internal/views"
)

var ErrUnknownRole = errors.New("unknown element role")

// Action is a click on a page element, identified by its data-role and data-id
type Action struct {
	Role string `json:"role"`
	ID   string `json:"id,omitempty"`
}

// Controller is the set of operations a click can trigger
type Controller interface {
	SelectTrack(ctx context.Context, id int) error
	SelectRacer(ctx context.Context, id int) error
	Submit(ctx context.Context) error
	Accelerate(ctx context.Context) error
	NewRace(ctx context.Context) error
}

type handlerFunc func(ctx context.Context, a Action) error

// Dispatcher routes actions to controller operations by role
type Dispatcher struct {
	handlers map[string]handlerFunc
}

// New registers every role handler for the given controller
func New(c Controller) *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]handlerFunc)}

	d.handlers[views.RoleTrack] = func(ctx context.Context, a Action) error {
		id, err := parseID(a)
		if err != nil {
			return err
		}
		return c.SelectTrack(ctx, id)
	}
	d.handlers[views.RoleRacer] = func(ctx context.Context, a Action) error {
		id, err := parseID(a)
		if err != nil {
			return err
		}
		return c.SelectRacer(ctx, id)
	}
	d.handlers[views.RoleSubmit] = func(ctx context.Context, a Action) error {
		return c.Submit(ctx)
	}
	// Accelerate is fire and forget, failures are logged by the controller.
	d.handlers[views.RoleAccelerate] = func(ctx context.Context, a Action) error {
		go func() {
			_ = c.Accelerate(ctx)
		}()
		return nil
	}
	d.handlers[views.RoleNewRace] = func(ctx context.Context, a Action) error {
		return c.NewRace(ctx)
	}

	return d
}

// Dispatch runs the handler registered for the action's role
func (d *Dispatcher) Dispatch(ctx context.Context, a Action) error {
	h, ok := d.handlers[a.Role]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, a.Role)
	}

	log.Debug().Str("role", a.Role).Str("id", a.ID).Msg("dispatching action")
	return h(ctx, a)
}

func parseID(a Action) (int, error) {
	id, err := strconv.Atoi(a.ID)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q: %w", a.Role, a.ID, err)
	}
	return id, nil
}
