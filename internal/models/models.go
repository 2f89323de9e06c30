package models

import "time"

// Page is the result of a single headline fetch.
type Page struct {
	Titles []string
	// Exhausted is set when the provider reports that no results remain.
	Exhausted bool
}

type Status struct {
	Text    string
	PlaceID string
}

type PostConfirmation struct {
	ID        string
	Text      string
	CreatedAt time.Time
	DryRun    bool
}
