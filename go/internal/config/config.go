package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the podracer client settings.
// Values come from defaults, then an optional YAML file, then environment variables.
type Config struct {
	RaceAPIURL     string        `yaml:"race_api_url"`
	Origin         string        `yaml:"origin"`
	Port           int           `yaml:"port"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	NATSURL        string        `yaml:"nats_url"`
	NATSSubject    string        `yaml:"nats_subject"`
	RaceIDOffset   int           `yaml:"race_id_offset"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	CountdownDelay time.Duration `yaml:"countdown_delay"`
	CountdownTick  time.Duration `yaml:"countdown_tick"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		RaceAPIURL:     "http://localhost:8000",
		Origin:         "",
		Port:           3000,
		LogLevel:       "info",
		LogFormat:      "console",
		NATSSubject:    "podracer.events",
		RaceIDOffset:   -1,
		HTTPTimeout:    30 * time.Second,
		PollInterval:   500 * time.Millisecond,
		CountdownDelay: time.Second,
		CountdownTick:  time.Second,
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.RaceAPIURL = getEnv("RACE_API_URL", c.RaceAPIURL)
	c.Origin = getEnv("RACE_API_ORIGIN", c.Origin)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.NATSURL = getEnv("NATS_URL", c.NATSURL)
	c.NATSSubject = getEnv("NATS_SUBJECT", c.NATSSubject)

	var err error
	if c.Port, err = getEnvAsInt("PORT", c.Port); err != nil {
		return err
	}
	if c.RaceIDOffset, err = getEnvAsInt("RACE_ID_OFFSET", c.RaceIDOffset); err != nil {
		return err
	}
	if c.HTTPTimeout, err = getEnvAsDuration("HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	if c.PollInterval, err = getEnvAsDuration("POLL_INTERVAL", c.PollInterval); err != nil {
		return err
	}
	if c.CountdownDelay, err = getEnvAsDuration("COUNTDOWN_DELAY", c.CountdownDelay); err != nil {
		return err
	}
	if c.CountdownTick, err = getEnvAsDuration("COUNTDOWN_TICK", c.CountdownTick); err != nil {
		return err
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	return nil
}

// Validate reports settings the client cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.RaceAPIURL == "" {
		errs = append(errs, errors.New("race_api_url is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll_interval must be positive"))
	}
	if c.CountdownTick <= 0 {
		errs = append(errs, errors.New("countdown_tick must be positive"))
	}
	if c.CountdownDelay < 0 {
		errs = append(errs, errors.New("countdown_delay must not be negative"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("http_timeout must be positive"))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return intValue, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
