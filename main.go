package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagReset        bool
	flagSeeExisting  bool
	flagDeleteAll    bool
	flagDeleteFuture bool
)

var rootCmd = &cobra.Command{
	Use:           "moviecal",
	Short:         "Scrape Screen Boston showtimes into a shared Google calendar",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().BoolVar(&flagReset, "reset", false,
		"Reset by deleting all future calendar entries and then adding new events.")
	rootCmd.Flags().BoolVar(&flagSeeExisting, "see-existing", false,
		"Log all existing calendar entries.")
	rootCmd.Flags().BoolVar(&flagDeleteAll, "delete-all", false,
		"Delete all events in the calendar.")
	rootCmd.Flags().BoolVar(&flagDeleteFuture, "delete-future", false,
		"Delete future events in the calendar.")
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	config, err := readConfig(".moviecal.toml")
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", config.Timezone, err)
	}

	ctx := context.Background()
	client, err := NewCalendarClient(ctx, config)
	if err != nil {
		return err
	}

	switch {
	case flagSeeExisting:
		existing, err := client.fetchExistingEvents()
		if err != nil {
			return err
		}
		slog.Info("existing events fetched", "count", len(existing))
		for _, key := range sortedEventKeys(existing) {
			slog.Info("existing event", "title", key.title, "start", key.utcStart)
		}
		return nil
	case flagDeleteFuture:
		return deleteFutureEvents(ctx, client)
	case flagDeleteAll:
		return deleteAllEvents(ctx, client)
	}

	if flagReset {
		if err := deleteFutureEvents(ctx, client); err != nil {
			return err
		}
	}

	showings, err := fetchShowings(config.SourceURL)
	if err != nil {
		return err
	}
	slog.Info("fetched showing data", "count", len(showings))
	for _, s := range showings {
		slog.Info("showing",
			"date", s.Date, "title", s.Title, "theater", s.Theater,
			"showtimes", strings.Join(s.Showtimes, ", "))
	}

	slog.Info("updating calendar", "calendar_id", config.CalendarID)
	if _, err := updateCalendar(client, loc, showings); err != nil {
		return err
	}
	fmt.Println("✅ Done")
	return nil
}
