package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mcdev12/podracer/go/internal/console"
	"github.com/mcdev12/podracer/go/internal/race"
)

type playOptions struct {
	trackID    int
	racerID    int
	accelerate time.Duration
}

func newPlayCmd() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a race in the terminal",
		Long: "Run a race in the terminal. Without --track and --racer the available\n" +
			"tracks and racers are listed and nothing is raced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return play(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.trackID, "track", 0, "track id to race on")
	cmd.Flags().IntVar(&opts.racerID, "racer", 0, "racer id to race with")
	cmd.Flags().DurationVar(&opts.accelerate, "accelerate-every", 200*time.Millisecond,
		"how often to press the gas while racing (0 disables)")
	return cmd
}

func play(parent context.Context, opts playOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := setupServices(cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	controller := race.NewController(services.RaceAPI, console.NewPresenter(os.Stdout), services.Publisher, nil, raceOptions(cfg))
	controller.Load(ctx)

	if opts.trackID == 0 || opts.racerID == 0 {
		fmt.Println("Pick a track and a racer with --track and --racer to start a race.")
		return nil
	}

	if err := controller.SelectTrack(ctx, opts.trackID); err != nil {
		return err
	}
	if err := controller.SelectRacer(ctx, opts.racerID); err != nil {
		return err
	}

	if opts.accelerate > 0 {
		go pressGas(ctx, controller, opts.accelerate)
	}
	return controller.Run(ctx)
}

// pressGas accelerates on every tick while the race is running
func pressGas(ctx context.Context, controller *race.Controller, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			switch controller.Phase() {
			case race.PhaseStarting, race.PhasePolling:
			case race.PhaseFinished:
				return
			default:
				continue
			}
			if err := controller.Accelerate(ctx); err != nil && !errors.Is(err, race.ErrNoActiveRace) {
				log.Debug().Err(err).Msg("accelerate failed")
			}
		}
	}
}
