package race

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/internal/models"
	"github.com/mcdev12/podracer/go/internal/race/events"
	"github.com/mcdev12/podracer/go/internal/session"
	"github.com/mcdev12/podracer/go/internal/views"
)

// race runs creation, countdown, start and polling for the given selection.
// The session is back in the selecting phase whenever it returns an error.
func (c *Controller) race(ctx context.Context, sel session.Snapshot) (err error) {
	defer func() {
		if err != nil {
			c.setPhase(PhaseSelecting)
		}
	}()

	playerID, trackID := *sel.PlayerID, *sel.TrackID
	logger := log.With().
		Str("session_id", c.state.ID.String()).
		Int("player_id", playerID).
		Int("track_id", trackID).
		Logger()

	created, err := c.api.CreateRace(ctx, playerID, trackID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create race")
		return fmt.Errorf("failed to create race: %w", err)
	}

	raceID := created.ID + c.opts.RaceIDOffset
	c.state.SetRace(raceID)
	logger = logger.With().Int("race_id", raceID).Logger()

	track := created.Track
	if track.Name == "" {
		track = c.trackByID(trackID)
	}

	c.publish(ctx, events.EventTypeRaceCreated, events.RaceCreatedPayload{
		RaceID:    raceID,
		TrackID:   track.ID,
		TrackName: track.Name,
		PlayerID:  playerID,
		CreatedAt: c.opts.Clock.Now(),
	})

	if err := c.presenter.ShowRaceStart(ctx, track); err != nil {
		logger.Error().Err(err).Msg("failed to render race start")
	}

	c.setPhase(PhaseCountdown)
	if err := c.countdown(ctx); err != nil {
		return err
	}

	c.setPhase(PhaseStarting)
	if err := c.api.StartRace(ctx, raceID); err != nil {
		logger.Error().Err(err).Msg("failed to start race")
	} else {
		c.publish(ctx, events.EventTypeRaceStarted, events.RaceStartedPayload{
			RaceID:    raceID,
			StartedAt: c.opts.Clock.Now(),
		})
	}

	c.setPhase(PhasePolling)
	final, err := c.poll(ctx, raceID, &playerID)
	if err != nil {
		return err
	}

	c.setPhase(PhaseFinished)
	c.publish(ctx, events.EventTypeRaceFinished, finishedPayload(final, raceID, playerID, c.opts.Clock.Now()))
	logger.Info().Msg("race finished")
	return nil
}

// countdown waits for the start view to settle, then ticks the big numbers down to zero
func (c *Controller) countdown(ctx context.Context) error {
	if err := c.wait(ctx, c.opts.CountdownDelay); err != nil {
		return err
	}
	for n := views.CountdownStart - 1; n >= 0; n-- {
		if err := c.wait(ctx, c.opts.CountdownTick); err != nil {
			return err
		}
		if err := c.presenter.ShowCountdown(ctx, n); err != nil {
			log.Error().Err(err).Int("countdown", n).Msg("failed to render countdown")
		}
	}
	return nil
}

// poll fetches the race every poll interval until it is finished
func (c *Controller) poll(ctx context.Context, raceID int, playerID *int) (*models.Race, error) {
	for {
		if err := c.wait(ctx, c.opts.PollInterval); err != nil {
			return nil, err
		}

		current, err := c.api.FetchRace(ctx, raceID)
		if err != nil {
			log.Warn().Err(err).Int("race_id", raceID).Msg("failed to fetch race, retrying")
			continue
		}

		switch current.Status {
		case models.RaceStatusFinished:
			if err := c.presenter.ShowResults(ctx, current.Positions, playerID); err != nil {
				log.Error().Err(err).Int("race_id", raceID).Msg("failed to render results")
			}
			return current, nil
		case models.RaceStatusInProgress, models.RaceStatusPending:
			if err := c.presenter.ShowLeaderboard(ctx, current.Positions, playerID); err != nil {
				log.Error().Err(err).Int("race_id", raceID).Msg("failed to render leaderboard")
			}
		default:
			log.Warn().Str("status", string(current.Status)).Int("race_id", raceID).Msg("unknown race status")
		}
	}
}

// wait blocks for d on the controller clock or until ctx is done
func (c *Controller) wait(ctx context.Context, d time.Duration) error {
	timer := c.opts.Clock.NewTimer(d)
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		stopAndDrainTimer(timer)
		return ctx.Err()
	}
}

func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

func (c *Controller) publish(ctx context.Context, eventType events.EventType, payload any) {
	if err := c.publisher.Publish(ctx, c.state.ID, eventType, payload); err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to publish race event")
	}
}

func finishedPayload(final *models.Race, raceID, playerID int, at time.Time) events.RaceFinishedPayload {
	payload := events.RaceFinishedPayload{
		RaceID:     raceID,
		PlayerID:   playerID,
		Racers:     len(final.Positions),
		FinishedAt: at,
	}
	for _, p := range final.Positions {
		if p.DriverID == playerID {
			payload.PlayerPosition = p.FinalPosition
			break
		}
	}
	return payload
}
