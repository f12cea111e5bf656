package models

// SummaryRequest carries everything the language model needs to write the
// weekly summary for one employee.
type SummaryRequest struct {
	CurrentNarrative  string // Rendered meetings for the reporting window
	PreviousNarrative string // Rendered meetings for the comparison window
	Commitments       string // Rendered commitment text agreed with the manager
	EmployeeName      string
	Role              string
	Department        string
}

// SummaryResult is the model's answer. Raw always holds the full completion
// text; Parsed is nil when that text is not a valid JSON object.
type SummaryResult struct {
	Parsed map[string]any `json:"parsed"`
	Raw    string         `json:"raw"`
}
