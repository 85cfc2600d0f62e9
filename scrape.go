package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	dateContainerSelector = "div.max-w-screen"
	dateLabelSelector     = "p.small"
	showingSelector       = "button[class='w-full h-auto max-w-full text-left']"
	titleSelector         = "p.big"
	formatSelector        = "p[class='text-[14px] text-primary']"
	detailSelector        = "p[class='']"

	unknownDate      = "Unknown Date"
	unknownShowtimes = "Unknown Showtimes"
	defaultRuntime   = "0h 0m"
)

// Showing is one scraped listing: a title screening at one theater on one
// date, possibly at several times.
type Showing struct {
	Date      string
	Title     string
	Format    string
	Director  string
	Year      string
	Genre     string
	Runtime   string
	Theater   string
	Showtimes []string
}

func fetchShowings(url string) ([]Showing, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch showtime page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("showtime page returned %s", resp.Status)
	}
	return parseShowings(resp.Body)
}

// parseShowings walks the date-grouped containers of the listing page. The
// container id carries the four-digit year, which is appended to the visible
// label so dates near a year boundary parse unambiguously.
func parseShowings(r io.Reader) ([]Showing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse showtime page: %w", err)
	}

	var showings []Showing
	doc.Find(dateContainerSelector).Each(func(_ int, container *goquery.Selection) {
		dateText := unknownDate
		if label := container.Find(dateLabelSelector).First(); label.Length() > 0 {
			dateText = strings.TrimSpace(label.Text())
		}
		if dateText == unknownDate || dateText == "" {
			return
		}
		year := strings.Split(container.AttrOr("id", ""), "-")[0]
		completeDate := dateText + " " + year

		container.Find(showingSelector).Each(func(_ int, block *goquery.Selection) {
			showing, err := parseShowing(completeDate, block)
			if err != nil {
				slog.Warn("skipping showing block", "date", completeDate, "error", err)
				return
			}
			showings = append(showings, showing)
		})
	})

	return showings, nil
}

// parseShowing reads one showing block. The title is required; the
// descriptive paragraphs are positional (director, "year, genre, runtime",
// theater) and fall back to Unknown placeholders when absent.
func parseShowing(date string, block *goquery.Selection) (Showing, error) {
	title := strings.TrimSpace(block.Find(titleSelector).First().Text())
	if title == "" {
		return Showing{}, fmt.Errorf("showing block has no title")
	}
	format := strings.TrimSpace(block.Find(formatSelector).First().Text())

	var details []string
	block.Find(detailSelector).Each(func(_ int, p *goquery.Selection) {
		details = append(details, strings.TrimSpace(p.Text()))
	})

	director := "Unknown Director"
	if len(details) > 0 {
		director = details[0]
	}
	year, genre, runtime := "Unknown Year", "Unknown Genre", defaultRuntime
	if len(details) > 1 {
		parts := strings.Split(details[1], ",")
		year = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			genre = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			runtime = strings.TrimSpace(parts[2])
		}
	}
	theater := "Unknown Theater"
	if len(details) > 2 {
		theater = details[2]
	}

	var showtimes []string
	block.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if strings.Contains(text, "AM") || strings.Contains(text, "PM") {
			showtimes = append(showtimes, text)
		}
	})
	if len(showtimes) == 0 {
		showtimes = []string{unknownShowtimes}
	}

	return Showing{
		Date:      date,
		Title:     title,
		Format:    format,
		Director:  director,
		Year:      year,
		Genre:     genre,
		Runtime:   runtime,
		Theater:   theater,
		Showtimes: showtimes,
	}, nil
}
