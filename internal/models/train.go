package models

import "time"

// Train is a training (entreno) record as stored by the SwimTrack API.
// Description holds either canonical series JSON or free text.
type Train struct {
	ID            int          `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Active        bool         `json:"active"`
	Published     time.Time    `json:"published"`
	Expired       time.Time    `json:"expired"`
	IDUserCreator int          `json:"idUserCreator"`
	UserCreator   *UserSummary `json:"userCreator,omitempty"`
	Rates         []Rate       `json:"rates,omitempty"`
}

// TrainInput is the create/update payload for a training.
type TrainInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	Published   time.Time `json:"published"`
	Expired     time.Time `json:"expired"`
}

// UserSummary is the creator block embedded in community trainings.
type UserSummary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email"`
}

// Rate is a single star rating left on a training.
type Rate struct {
	ID      int `json:"id,omitempty"`
	IDTrain int `json:"idTrain,omitempty"`
	IDUser  int `json:"idUser,omitempty"`
	Value   int `json:"value"`
}

// GlobalRate is the aggregated rating of a training.
type GlobalRate struct {
	AverageRating *float64 `json:"averageRating"`
	TotalRatings  int      `json:"totalRatings"`
}
