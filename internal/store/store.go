// Package store reads employee profiles and manager commitments from the
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"weeksum/internal/models"
)

var (
	// ErrPersonNotFound means the email has no row in the people table.
	ErrPersonNotFound = errors.New("person not found")
	// ErrWrongPassword means the password does not match the person's id.
	ErrWrongPassword = errors.New("wrong password")
)

// Store wraps the SQLite database holding people and commitments.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating the schema when needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		department TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS commitments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_key TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT '',
		status_assigned_at TEXT NOT NULL DEFAULT '',
		modified TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_commitments_employee ON commitments(employee_key);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PersonByEmail looks up a profile. Emails match trimmed and lowercased.
func (s *Store) PersonByEmail(ctx context.Context, email string) (models.Person, error) {
	email = normalizeEmail(email)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, department, position FROM people WHERE email = ? LIMIT 1`,
		email)

	var p models.Person
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Department, &p.Position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Person{}, fmt.Errorf("%w: %s", ErrPersonNotFound, email)
		}
		return models.Person{}, fmt.Errorf("failed to query person: %w", err)
	}
	return p, nil
}

// Authenticate validates the credential pair. The password for a person is
// their numeric id rendered as text.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.Person, error) {
	p, err := s.PersonByEmail(ctx, email)
	if err != nil {
		return models.Person{}, err
	}
	if strings.TrimSpace(password) != strconv.FormatInt(p.ID, 10) {
		return models.Person{}, ErrWrongPassword
	}
	return p, nil
}

// CommitmentsFor returns the commitments relevant to the reporting window:
// everything still started, plus anything completed after the window
// opened.
func (s *Store) CommitmentsFor(ctx context.Context, email string, periodStart time.Time) ([]models.Commitment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, due_date, status, priority, modified
		FROM commitments
		WHERE employee_key = ?
		  AND (status = 'started' OR (status = 'completed' AND status_assigned_at > ?))
		ORDER BY id`,
		normalizeEmail(email), periodStart.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query commitments: %w", err)
	}
	defer rows.Close()

	var commitments []models.Commitment
	for rows.Next() {
		var c models.Commitment
		if err := rows.Scan(&c.Name, &c.Description, &c.DueDate, &c.Status, &c.Priority, &c.Modified); err != nil {
			return nil, fmt.Errorf("failed to scan commitment: %w", err)
		}
		commitments = append(commitments, c)
	}
	return commitments, rows.Err()
}

// noCommitments is the text used when the window has no commitments.
const noCommitments = "No commitments found for this period."

// RenderCommitments turns the rows into the text block the summary prompt
// presents as the manager's requests.
func RenderCommitments(commitments []models.Commitment) string {
	if len(commitments) == 0 {
		return noCommitments
	}

	sentences := make([]string, 0, len(commitments))
	for _, c := range commitments {
		sentences = append(sentences, fmt.Sprintf(
			"The commitment is %s, described as %s. It is due by %s and has status %s, with priority %s, and its last update was %s.",
			c.Name, c.Description, c.DueDate, c.Status, c.Priority, c.Modified))
	}
	return strings.Join(sentences, " ")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
