package models

// Person is an employee profile row from the people table.
type Person struct {
	ID         int64  // Numeric identifier, doubles as the login password rendered as text
	Name       string // Full name
	Email      string // Corporate email, stored lowercase
	Department string // Department or area
	Position   string // Job title
}

// Commitment is a manager-assigned task used as context for the summary.
type Commitment struct {
	Name        string // Short title
	Description string // What was agreed
	DueDate     string // Due date as stored, rendered verbatim
	Status      string // "started" or "completed"
	Priority    string // Priority label
	Modified    string // Last-update timestamp as stored, rendered verbatim
}
