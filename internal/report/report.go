package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"weeksum/internal/models"
	"weeksum/internal/msgraph"
	"weeksum/internal/period"
)

// EventSource fetches raw calendar events for a mailbox and window.
type EventSource interface {
	CalendarView(ctx context.Context, mailbox string, p period.Period) ([]msgraph.RawEvent, error)
}

// SummaryGenerator turns an assembled request into the final summary.
type SummaryGenerator interface {
	Generate(ctx context.Context, req models.SummaryRequest) (models.SummaryResult, error)
}

// Reporter drives the summary pipeline end to end: fetch, normalize,
// canonicalize and narrate both windows, then hand the narratives to the
// generator.
type Reporter struct {
	logger    *slog.Logger
	source    EventSource
	generator SummaryGenerator
	location  *time.Location
}

// NewReporter creates a reporter rendering times in the given location.
func NewReporter(logger *slog.Logger, source EventSource, generator SummaryGenerator, loc *time.Location) *Reporter {
	return &Reporter{
		logger:    logger,
		source:    source,
		generator: generator,
		location:  loc,
	}
}

// Events returns the window's canonicalized events for a person's mailbox.
func (r *Reporter) Events(ctx context.Context, person models.Person, p period.Period) ([]models.Event, error) {
	raw, err := r.source.CalendarView(ctx, person.Email, p)
	if err != nil {
		return nil, err
	}

	identity := msgraph.Identity{
		Email:         person.Email,
		DisplayName:   person.Name,
		PrincipalName: person.Email,
	}
	return Canonicalize(msgraph.Normalize(raw, identity), r.location), nil
}

// Run generates the summary for the given window. The comparison window is
// always the same window shifted back seven days, and both fetches must
// succeed before the generator runs.
func (r *Reporter) Run(ctx context.Context, person models.Person, p period.Period, commitments string) (models.SummaryResult, error) {
	r.logger.Info("Starting summary pipeline",
		"email", person.Email,
		"start", p.Start.Format("2006-01-02"),
		"end", p.End.Format("2006-01-02"))

	currentEvents, err := r.Events(ctx, person, p)
	if err != nil {
		return models.SummaryResult{}, fmt.Errorf("failed to fetch the reporting window: %w", err)
	}
	r.logger.Info("Fetched reporting window", "count", len(currentEvents))

	previousEvents, err := r.Events(ctx, person, p.Previous())
	if err != nil {
		return models.SummaryResult{}, fmt.Errorf("failed to fetch the comparison window: %w", err)
	}
	r.logger.Info("Fetched comparison window", "count", len(previousEvents))

	req := models.SummaryRequest{
		CurrentNarrative:  Narrative(currentEvents),
		PreviousNarrative: Narrative(previousEvents),
		Commitments:       commitments,
		EmployeeName:      person.Name,
		Role:              person.Position,
		Department:        person.Department,
	}

	result, err := r.generator.Generate(ctx, req)
	if err != nil {
		return models.SummaryResult{}, err
	}

	r.logger.Info("Summary pipeline finished", "parsed", result.Parsed != nil)
	return result, nil
}
