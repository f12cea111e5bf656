package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"weeksum/internal/period"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// dateTimeLayout is the zone-less timestamp format the calendarView
// endpoint expects for its window parameters.
const dateTimeLayout = "2006-01-02T15:04:05"

// FetchError reports a calendar page request that came back with a
// non-success status. Results from earlier pages are discarded.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("calendar request failed: %d - %s", e.StatusCode, e.Body)
}

// tokenSource yields the bearer token for one fetch.
type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client fetches calendar events from the Graph API.
type Client struct {
	httpClient *http.Client
	tokens     tokenSource
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a calendar client that authenticates each fetch with a
// fresh token from the given provider.
func NewClient(logger *slog.Logger, tokens tokenSource) *Client {
	return &Client{
		httpClient: &http.Client{},
		tokens:     tokens,
		baseURL:    graphBaseURL,
		logger:     logger,
	}
}

// calendarPage is one page of a calendarView response.
type calendarPage struct {
	Value    []RawEvent `json:"value"`
	NextLink string     `json:"@odata.nextLink"`
}

// CalendarView returns every event in the mailbox between the window's
// start at 00:00 and its end at 23:59, ordered by start time. A single
// token covers the whole fetch, continuation links are followed until the
// service stops returning them, and any failing page fails the fetch as a
// whole.
func (c *Client) CalendarView(ctx context.Context, mailbox string, p period.Period) ([]RawEvent, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("startDateTime", dayStart(p.Start))
	query.Set("endDateTime", dayEnd(p.End))
	query.Set("$orderby", "start/dateTime")
	next := fmt.Sprintf("%s/users/%s/calendarView?%s", c.baseURL, mailbox, query.Encode())

	var events []RawEvent
	pages := 0
	for next != "" {
		page, err := c.fetchPage(ctx, next, token)
		if err != nil {
			return nil, err
		}
		events = append(events, page.Value...)
		// The continuation link already carries the window parameters.
		next = page.NextLink
		pages++
	}

	c.logger.Info("Fetched calendar events", "mailbox", mailbox, "count", len(events), "pages", pages)
	return events, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL, token string) (*calendarPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var page calendarPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}
	return &page, nil
}

// dayStart renders the window's opening instant without a zone offset.
func dayStart(d time.Time) string {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Format(dateTimeLayout)
}

// dayEnd renders the window's closing instant. The day closes at 23:59, not
// 24:00, so events starting inside the final minute fall outside the window.
func dayEnd(d time.Time) string {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, time.UTC).Format(dateTimeLayout)
}
