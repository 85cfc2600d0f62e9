package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Each delete gets three attempts with doubling backoff. Do not raise this
// or make it unbounded; a stuck event is logged and left behind so the rest
// of the purge can finish.
const deleteAttempts = 3

// deleteEvents pages through the calendar, optionally bounded to events
// starting at or after timeMin (RFC3339), and deletes everything returned.
// A failing list call aborts the purge since there is no page left to work
// on; a failing delete only costs that one event.
func deleteEvents(ctx context.Context, client *CalendarClient, timeMin string) error {
	pageToken := ""
	for {
		call := client.service.Events.List(client.calendarID).
			PageToken(pageToken).
			SingleEvents(true).
			OrderBy("startTime")
		if timeMin != "" {
			call = call.TimeMin(timeMin)
		}
		events, err := call.Do()
		if err != nil {
			slog.Error("failed to list events for deletion", "error", err)
			return err
		}
		if len(events.Items) == 0 {
			slog.Info("no events found to delete")
			break
		}

		for _, event := range events.Items {
			backoff := retry.WithMaxRetries(deleteAttempts-1, retry.NewExponential(client.retryBase))
			err := retry.Do(ctx, backoff, func(ctx context.Context) error {
				if err := client.deleteEvent(event.Id); err != nil {
					slog.Warn("failed to delete event, retrying", "summary", event.Summary, "error", err)
					return retry.RetryableError(err)
				}
				return nil
			})
			if err != nil {
				slog.Error("giving up on event after retries", "summary", event.Summary, "id", event.Id, "error", err)
				continue
			}
			slog.Info("deleted event", "summary", event.Summary)
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return nil
}

func deleteAllEvents(ctx context.Context, client *CalendarClient) error {
	return deleteEvents(ctx, client, "")
}

func deleteFutureEvents(ctx context.Context, client *CalendarClient) error {
	return deleteEvents(ctx, client, time.Now().UTC().Format(time.RFC3339))
}
