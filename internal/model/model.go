// Package model defines the domain types used across the application.
package model

import "time"

// AccountStatus describes whether an account may be selected for polling.
type AccountStatus string

// Supported account statuses. Disabled is terminal for the run.
const (
	StatusActive   AccountStatus = "active"
	StatusDisabled AccountStatus = "disabled"
)

// Account is one credentialed search account in the rotation pool.
// Status and Failures are owned by the health tracker.
type Account struct {
	Name        string
	BearerToken string
	Contact     string
	Status      AccountStatus
	Failures    int
}

// Item is a single post returned by the search API.
type Item struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// Batch is one page of search results, ordered newest first.
type Batch struct {
	Items    []Item
	NewestID string
}

// Outcome classifies the result of one poll cycle.
type Outcome int

// Poll outcomes. A rate-limited response is an expected consequence of
// rotating several credentials and is kept distinct from real faults.
const (
	OutcomeSuccess Outcome = iota
	OutcomeRateLimited
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}
