package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// utcKeyLayout is the second-precision UTC format shared by the event index
// and the instants written on inserted events, so probes and inserts agree.
const utcKeyLayout = "2006-01-02T15:04:05Z"

// eventKey is the natural key for a showing on the remote calendar. Two
// showings with the same title and the same UTC start are indistinguishable.
type eventKey struct {
	title    string
	utcStart string
}

func makeEventKey(summary string, start time.Time) eventKey {
	return eventKey{
		title:    strings.TrimSpace(summary),
		utcStart: start.UTC().Format(utcKeyLayout),
	}
}

type CalendarClient struct {
	service    *calendar.Service
	calendarID string
	retryBase  time.Duration
}

// NewCalendarClient builds a calendar client from the service account
// credentials file named in the config. Any failure here is fatal to the run.
func NewCalendarClient(ctx context.Context, config *Config) (*CalendarClient, error) {
	data, err := os.ReadFile(config.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{
		service:    service,
		calendarID: config.CalendarID,
		retryBase:  config.retryBase(),
	}, nil
}

// fetchExistingEvents pages through every event on the calendar and returns
// the identity-key index. Events without a summary and all-day events (no
// dateTime start) can never be recognized as duplicates, so they are left
// out of the index.
func (c *CalendarClient) fetchExistingEvents() (map[eventKey]string, error) {
	existing := make(map[eventKey]string)
	pageToken := ""
	for {
		events, err := c.service.Events.List(c.calendarID).
			PageToken(pageToken).
			SingleEvents(true).
			OrderBy("startTime").
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, item := range events.Items {
			if strings.TrimSpace(item.Summary) == "" || item.Start == nil || item.Start.DateTime == "" {
				continue
			}
			start, err := time.Parse(time.RFC3339, item.Start.DateTime)
			if err != nil {
				slog.Warn("event has unparsable start, skipping", "id", item.Id, "start", item.Start.DateTime)
				continue
			}
			existing[makeEventKey(item.Summary, start)] = item.Id
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return existing, nil
}

// sortedEventKeys orders index keys by start then title, matching the
// startTime ordering the events were listed in.
func sortedEventKeys(existing map[eventKey]string) []eventKey {
	keys := make([]eventKey, 0, len(existing))
	for key := range existing {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].utcStart != keys[j].utcStart {
			return keys[i].utcStart < keys[j].utcStart
		}
		return keys[i].title < keys[j].title
	})
	return keys
}

func (c *CalendarClient) insertEvent(event *calendar.Event) (string, error) {
	created, err := c.service.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return created.Id, nil
}

func (c *CalendarClient) deleteEvent(eventID string) error {
	if err := c.service.Events.Delete(c.calendarID, eventID).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
