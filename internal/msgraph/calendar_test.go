package msgraph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"weeksum/internal/period"
)

type staticTokens struct {
	token string
	calls int
}

func (s *staticTokens) Token(ctx context.Context) (string, error) {
	s.calls++
	return s.token, nil
}

func testWindow() period.Period {
	return period.Period{
		Start: time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC),
	}
}

func rawSubject(ev RawEvent) string {
	if ev.Subject == nil {
		return ""
	}
	return *ev.Subject
}

func TestCalendarViewBuildsDayBoundedQuery(t *testing.T) {
	var got url.Values
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"value":[]}`)
	}))
	defer srv.Close()

	c := NewClient(discardLogger(), &staticTokens{token: "tok"})
	c.baseURL = srv.URL

	if _, err := c.CalendarView(context.Background(), "ana@example.com", testWindow()); err != nil {
		t.Fatalf("CalendarView returned error: %v", err)
	}

	if got.Get("startDateTime") != "2025-06-09T00:00:00" {
		t.Errorf("Expected startDateTime 2025-06-09T00:00:00, got %q", got.Get("startDateTime"))
	}
	if got.Get("endDateTime") != "2025-06-13T23:59:00" {
		t.Errorf("Expected endDateTime 2025-06-13T23:59:00, got %q", got.Get("endDateTime"))
	}
	if got.Get("$orderby") != "start/dateTime" {
		t.Errorf("Expected ordering by start time, got %q", got.Get("$orderby"))
	}
	if auth != "Bearer tok" {
		t.Errorf("Expected bearer authorization, got %q", auth)
	}
}

func TestCalendarViewFollowsContinuationLinks(t *testing.T) {
	var srv *httptest.Server
	secondQuery := "unset"
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/ana@example.com/calendarView":
			fmt.Fprintf(w, `{"value":[{"subject":"one"},{"subject":"two"}],"@odata.nextLink":"%s/page2"}`, srv.URL)
		case "/page2":
			secondQuery = r.URL.RawQuery
			fmt.Fprint(w, `{"value":[{"subject":"three"}]}`)
		default:
			t.Errorf("Unexpected request path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(discardLogger(), &staticTokens{token: "tok"})
	c.baseURL = srv.URL

	events, err := c.CalendarView(context.Background(), "ana@example.com", testWindow())
	if err != nil {
		t.Fatalf("CalendarView returned error: %v", err)
	}

	want := []string{"one", "two", "three"}
	if len(events) != len(want) {
		t.Fatalf("Expected %d events across pages, got %d", len(want), len(events))
	}
	for i, subject := range want {
		if rawSubject(events[i]) != subject {
			t.Errorf("Event %d: expected subject %q, got %q", i, subject, rawSubject(events[i]))
		}
	}
	if secondQuery != "" {
		t.Errorf("Continuation request must use the link verbatim, got extra query %q", secondQuery)
	}
}

func TestCalendarViewUsesOneTokenPerFetch(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page3":
			fmt.Fprint(w, `{"value":[{"subject":"c"}]}`)
		case "/page2":
			fmt.Fprintf(w, `{"value":[{"subject":"b"}],"@odata.nextLink":"%s/page3"}`, srv.URL)
		default:
			fmt.Fprintf(w, `{"value":[{"subject":"a"}],"@odata.nextLink":"%s/page2"}`, srv.URL)
		}
	}))
	defer srv.Close()

	tokens := &staticTokens{token: "tok"}
	c := NewClient(discardLogger(), tokens)
	c.baseURL = srv.URL

	events, err := c.CalendarView(context.Background(), "ana@example.com", testWindow())
	if err != nil {
		t.Fatalf("CalendarView returned error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if tokens.calls != 1 {
		t.Errorf("Expected exactly one token per fetch, got %d", tokens.calls)
	}
}

func TestCalendarViewFailureDiscardsPartialResults(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page2" {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "throttled")
			return
		}
		fmt.Fprintf(w, `{"value":[{"subject":"kept so far"}],"@odata.nextLink":"%s/page2"}`, srv.URL)
	}))
	defer srv.Close()

	c := NewClient(discardLogger(), &staticTokens{token: "tok"})
	c.baseURL = srv.URL

	events, err := c.CalendarView(context.Background(), "ana@example.com", testWindow())
	if events != nil {
		t.Errorf("Expected no partial results, got %d events", len(events))
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", fetchErr.StatusCode)
	}
	if fetchErr.Body != "throttled" {
		t.Errorf("Expected body to carry the service response, got %q", fetchErr.Body)
	}
}
