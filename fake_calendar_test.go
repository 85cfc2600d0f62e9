package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// fakeCalendar is an in-memory stand-in for the Calendar API, served over
// httptest. Page tokens are offsets into a snapshot taken when an
// enumeration starts, like the real cursors.
type fakeCalendar struct {
	mu       sync.Mutex
	pageSize int
	events   []*calendar.Event
	snapshot []*calendar.Event
	nextID   int

	inserts        int
	deleted        []string
	deleteFailures map[string]int
	deleteAttempts map[string]int
	lastTimeMin    string
	failList       bool
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{
		pageSize:       100,
		deleteFailures: map[string]int{},
		deleteAttempts: map[string]int{},
	}
}

func (f *fakeCalendar) add(event *calendar.Event) *calendar.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.Id == "" {
		f.nextID++
		event.Id = fmt.Sprintf("ev-%d", f.nextID)
	}
	f.events = append(f.events, event)
	return event
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/events"):
		f.list(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/events"):
		f.insert(w, r)
	case r.Method == http.MethodDelete:
		f.delete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCalendar) list(w http.ResponseWriter, r *http.Request) {
	if f.failList {
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
		return
	}

	pageToken := r.URL.Query().Get("pageToken")
	if pageToken == "" {
		timeMin := r.URL.Query().Get("timeMin")
		f.lastTimeMin = timeMin
		f.snapshot = nil
		for _, event := range f.events {
			if timeMin != "" && event.Start != nil && event.Start.DateTime < timeMin {
				continue
			}
			f.snapshot = append(f.snapshot, event)
		}
	}

	offset := 0
	if pageToken != "" {
		offset, _ = strconv.Atoi(pageToken)
	}
	end := offset + f.pageSize
	if end > len(f.snapshot) {
		end = len(f.snapshot)
	}
	page := &calendar.Events{Items: f.snapshot[offset:end]}
	if end < len(f.snapshot) {
		page.NextPageToken = strconv.Itoa(end)
	}
	_ = json.NewEncoder(w).Encode(page)
}

func (f *fakeCalendar) insert(w http.ResponseWriter, r *http.Request) {
	var event calendar.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.nextID++
	event.Id = fmt.Sprintf("ev-%d", f.nextID)
	f.events = append(f.events, &event)
	f.inserts++
	_ = json.NewEncoder(w).Encode(&event)
}

func (f *fakeCalendar) delete(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	id := parts[len(parts)-1]
	f.deleteAttempts[id]++
	if f.deleteFailures[id] > 0 {
		f.deleteFailures[id]--
		http.Error(w, `{"error":{"code":503,"message":"backend error"}}`, http.StatusServiceUnavailable)
		return
	}
	for i, event := range f.events {
		if event.Id == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			break
		}
	}
	f.deleted = append(f.deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeCalendar) remaining() []*calendar.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*calendar.Event(nil), f.events...)
}

func newTestClient(t *testing.T, f *fakeCalendar) *CalendarClient {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	service, err := calendar.NewService(context.Background(),
		option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)

	return &CalendarClient{
		service:    service,
		calendarID: "showtimes",
		retryBase:  time.Millisecond,
	}
}

func nyLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}
