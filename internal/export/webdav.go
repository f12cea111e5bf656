package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
)

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "weeksum/1.0")
	return t.Transport.RoundTrip(req)
}

// Uploader publishes calendar files into a WebDAV collection.
type Uploader struct {
	webdavClient *webdav.Client
	logger       *slog.Logger
}

// NewUploader creates an uploader for the collection at baseURL.
func NewUploader(logger *slog.Logger, baseURL, username, password string) (*Uploader, error) {
	transport := &customTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	webdavClient, err := webdav.NewClient(httpClient, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	return &Uploader{webdavClient: webdavClient, logger: logger}, nil
}

// Upload writes the calendar to name inside the collection. Calendars
// without events return ErrEmptyCalendar without contacting the server.
func (u *Uploader) Upload(ctx context.Context, name string, cal *ical.Calendar) error {
	if len(cal.Children) == 0 {
		return ErrEmptyCalendar
	}
	u.logger.Debug("Uploading calendar", "name", name)

	writer, err := u.webdavClient.Create(ctx, path.Join("/", name))
	if err != nil {
		return fmt.Errorf("failed to create file on WebDAV server: %w", err)
	}
	defer writer.Close()

	if err := ical.NewEncoder(writer).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar to iCal format: %w", err)
	}

	u.logger.Info("Successfully uploaded calendar", "name", name)
	return nil
}
