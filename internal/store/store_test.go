package store

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"weeksum/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "weeksum.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPerson(t *testing.T, s *Store, id int64, name, email, department, position string) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO people (id, name, email, department, position) VALUES (?, ?, ?, ?, ?)`,
		id, name, email, department, position)
	if err != nil {
		t.Fatalf("Failed to seed person: %v", err)
	}
}

func seedCommitment(t *testing.T, s *Store, employee, name, status, statusAssignedAt string) {
	t.Helper()
	_, err := s.db.Exec(`
		INSERT INTO commitments (employee_key, name, description, due_date, status, priority, status_assigned_at, modified)
		VALUES (?, ?, 'desc', '2025-06-20', ?, 'high', ?, '2025-06-01')`,
		employee, name, status, statusAssignedAt)
	if err != nil {
		t.Fatalf("Failed to seed commitment: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	seedPerson(t, s, 7, "Ana Souza", "ana@example.com", "People", "Analyst")

	p, err := s.Authenticate(context.Background(), "  Ana@Example.com ", "7")
	if err != nil {
		t.Fatalf("Expected login to succeed, got %v", err)
	}
	if p.Name != "Ana Souza" || p.Department != "People" || p.Position != "Analyst" {
		t.Errorf("Unexpected profile: %+v", p)
	}

	if _, err := s.Authenticate(context.Background(), "ana@example.com", "8"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}
	if _, err := s.Authenticate(context.Background(), "bruno@example.com", "1"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("Expected ErrPersonNotFound, got %v", err)
	}
}

func TestPersonByEmailNormalizesLookup(t *testing.T) {
	s := newTestStore(t)
	seedPerson(t, s, 12, "Bruno Lima", "bruno@example.com", "Engineering", "Developer")

	p, err := s.PersonByEmail(context.Background(), "BRUNO@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("PersonByEmail returned error: %v", err)
	}
	if p.ID != 12 || p.Email != "bruno@example.com" {
		t.Errorf("Unexpected person: %+v", p)
	}
}

func TestCommitmentsForFiltersByStatusAndDate(t *testing.T) {
	s := newTestStore(t)
	seedCommitment(t, s, "ana@example.com", "keep started", "started", "2025-01-01")
	seedCommitment(t, s, "ana@example.com", "keep completed recent", "completed", "2025-06-11")
	seedCommitment(t, s, "ana@example.com", "drop completed old", "completed", "2025-05-01")
	seedCommitment(t, s, "bruno@example.com", "drop other employee", "started", "2025-01-01")

	periodStart := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	got, err := s.CommitmentsFor(context.Background(), "ana@example.com", periodStart)
	if err != nil {
		t.Fatalf("CommitmentsFor returned error: %v", err)
	}

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	sort.Strings(names)

	want := []string{"keep completed recent", "keep started"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected %q, got %q", want[i], names[i])
		}
	}
}

func TestCommitmentsForEmptyWindow(t *testing.T) {
	s := newTestStore(t)

	got, err := s.CommitmentsFor(context.Background(), "ana@example.com", time.Now())
	if err != nil {
		t.Fatalf("CommitmentsFor returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no commitments, got %d", len(got))
	}
}

func TestRenderCommitments(t *testing.T) {
	got := RenderCommitments([]models.Commitment{{
		Name:        "onboarding review",
		Description: "review the onboarding deck",
		DueDate:     "2025-06-20",
		Status:      "started",
		Priority:    "high",
		Modified:    "2025-06-01",
	}})

	want := "The commitment is onboarding review, described as review the onboarding deck. " +
		"It is due by 2025-06-20 and has status started, with priority high, and its last update was 2025-06-01."
	if got != want {
		t.Errorf("Unexpected rendering:\n got %q\nwant %q", got, want)
	}
}

func TestRenderCommitmentsEmptyFallback(t *testing.T) {
	if got := RenderCommitments(nil); got != "No commitments found for this period." {
		t.Errorf("Expected the fallback text, got %q", got)
	}
}

func TestRenderCommitmentsJoinsSentences(t *testing.T) {
	got := RenderCommitments([]models.Commitment{
		{
			Name:        "first",
			Description: "kickoff prep",
			DueDate:     "2025-06-20",
			Status:      "started",
			Priority:    "high",
			Modified:    "2025-06-01",
		},
		{
			Name:        "second",
			Description: "report draft",
			DueDate:     "2025-06-27",
			Status:      "completed",
			Priority:    "medium",
			Modified:    "2025-06-08",
		},
	})

	if n := strings.Count(got, "The commitment is"); n != 2 {
		t.Errorf("Expected 2 sentences, got %d", n)
	}
	if !strings.Contains(got, "was 2025-06-01. The commitment is second") {
		t.Errorf("Expected sentences joined by a single space, got %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("Expected single-space joining, got %q", got)
	}
}
