package main

import (
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/calendar/v3"
)

// updateCalendar reconciles the scraped showings against the remote calendar.
// Each (showing, showtime) pair is either skipped (invalid data), recognized
// as a duplicate of an existing event, or inserted. The returned set holds
// every event id touched this run. Running twice against the same page
// snapshot and an unmodified calendar inserts nothing the second time.
func updateCalendar(client *CalendarClient, loc *time.Location, showings []Showing) (map[string]bool, error) {
	existing, err := client.fetchExistingEvents()
	if err != nil {
		return nil, err
	}

	eventIDs := make(map[string]bool)
	for _, showing := range showings {
		for _, showtime := range showing.Showtimes {
			if !validateShowtime(showtime) {
				slog.Warn("invalid showtime, skipping", "showtime", showtime, "title", showing.Title)
				continue
			}
			start, end, err := showingTimes(showing.Date, showtime, showing.Runtime, loc)
			if err != nil {
				slog.Error("skipping showtime", "title", showing.Title, "error", err)
				continue
			}

			key := makeEventKey(showing.Title, start)
			if id, ok := existing[key]; ok {
				slog.Info("duplicate showing", "title", showing.Title, "showtime", showtime, "date", showing.Date)
				eventIDs[id] = true
				continue
			}

			id, err := client.insertEvent(showingEvent(showing, start, end, loc.String()))
			if err != nil {
				slog.Error("failed to insert event", "title", showing.Title, "error", err)
				continue
			}
			slog.Info("added showing", "title", showing.Title, "showtime", showtime, "date", showing.Date)
			existing[key] = id
			eventIDs[id] = true
		}
	}
	return eventIDs, nil
}

func showingEvent(s Showing, start, end time.Time, timezone string) *calendar.Event {
	description := fmt.Sprintf("%s\nDirector: %s\n%s, %s, %s\nTheater: %s",
		s.Format, s.Director, s.Year, s.Genre, s.Runtime, s.Theater)
	return &calendar.Event{
		Summary:     s.Title,
		Location:    s.Theater,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(utcKeyLayout),
			TimeZone: timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(utcKeyLayout),
			TimeZone: timezone,
		},
	}
}
