package main

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultSourceURL       = "https://www.screenboston.com"
	defaultCalendarID      = "e5c1da30fb4f7107d2d82740aa70cda38574d03f7c0d2a64bc5c8fd55e6d0465@group.calendar.google.com"
	defaultTimezone        = "America/New_York"
	defaultCredentialsFile = "credentials.json"
	defaultRetryBase       = 2
)

type Config struct {
	SourceURL        string `toml:"source_url"`
	CalendarID       string `toml:"calendar_id"`
	Timezone         string `toml:"timezone"`
	CredentialsFile  string `toml:"credentials_file"`
	RetryBaseSeconds int    `toml:"retry_base_seconds"`
}

func readConfig(filename string) (*Config, error) {
	config := &Config{
		SourceURL:        defaultSourceURL,
		CalendarID:       defaultCalendarID,
		Timezone:         defaultTimezone,
		CredentialsFile:  defaultCredentialsFile,
		RetryBaseSeconds: defaultRetryBase,
	}

	// Try first current dir, then `$HOME/.config/moviecal/`. A missing file
	// is fine, the defaults above match the production deployment.
	data, err := os.ReadFile(filename)
	if err != nil {
		data, err = os.ReadFile(os.Getenv("HOME") + "/.config/moviecal/" + filename)
	}
	if err == nil {
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("MOVIECAL_CALENDAR_ID"); v != "" {
		config.CalendarID = v
	}
	if v := os.Getenv("MOVIECAL_CREDENTIALS_FILE"); v != "" {
		config.CredentialsFile = v
	}

	return config, nil
}

func (c *Config) retryBase() time.Duration {
	return time.Duration(c.RetryBaseSeconds) * time.Second
}
