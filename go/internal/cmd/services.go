package main

import (
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/clients/race_api_client"
	"github.com/mcdev12/podracer/go/internal/config"
	"github.com/mcdev12/podracer/go/internal/race"
	"github.com/mcdev12/podracer/go/internal/race/events"
)

type Services struct {
	RaceAPI   *race_api_client.RaceApiClient
	Publisher events.Publisher

	closers []func() error
}

func setupServices(cfg config.Config) (*Services, error) {
	api := race_api_client.NewRaceApiClient(cfg.RaceAPIURL, cfg.Origin)
	api.SetTimeout(cfg.HTTPTimeout)

	log.Debug().Str("race_api_url", api.BaseURL()).Dur("timeout", cfg.HTTPTimeout).Msg("race API client configured")

	services := &Services{
		RaceAPI:   api,
		Publisher: events.LogPublisher{},
	}

	if cfg.NATSURL != "" {
		publisher, err := events.ConnectNATS(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, err
		}
		services.Publisher = publisher
		services.closers = append(services.closers, publisher.Close)
		log.Info().Str("nats_url", cfg.NATSURL).Msg("publishing race events to NATS")
	}

	return services, nil
}

func (s *Services) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Msg("failed to close service")
		}
	}
}

func raceOptions(cfg config.Config) race.Options {
	opts := race.DefaultOptions()
	opts.PollInterval = cfg.PollInterval
	opts.CountdownDelay = cfg.CountdownDelay
	opts.CountdownTick = cfg.CountdownTick
	opts.RaceIDOffset = cfg.RaceIDOffset
	return opts
}
