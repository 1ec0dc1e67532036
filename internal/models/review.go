package models

import "time"

// ReviewOutput is the fixed seven-field result of one AI analysis. Every
// field is always populated; anything the model omitted is filled with the
// field's empty value (empty list or empty string).
type ReviewOutput struct {
	Errors         []string `json:"errors"`
	Improvements   []string `json:"improvements"`
	SecurityIssues []string `json:"security_issues"`
	CleanCode      []string `json:"clean_code"`
	Complexity     string   `json:"complexity"`
	RefactorCode   string   `json:"refactor_code"`
	Summary        string   `json:"summary"`
}

// Review is one immutable code submission and its generated output, owned
// by the user who submitted it. Reviews are never updated in place.
type Review struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Code      string       `json:"code"`
	Language  string       `json:"language"`
	Output    ReviewOutput `json:"output"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReviewSummary is the listing projection of a Review: enough for a history
// view without shipping the full code and output payloads.
type ReviewSummary struct {
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
