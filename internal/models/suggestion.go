package models

import "time"

// Suggestion is an entry on the suggestions board.
type Suggestion struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Active        bool      `json:"active"`
	Published     time.Time `json:"published"`
	Expired       time.Time `json:"expired"`
	IDUserCreator int       `json:"idUserCreator"`
}

// SuggestionInput is the create/update payload for a suggestion.
type SuggestionInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	Published   time.Time `json:"published"`
	Expired     time.Time `json:"expired"`
}
