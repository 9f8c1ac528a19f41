package views

import "github.com/swimtrack/swimtrack/internal/models"

// VisibleSuggestions applies the board's visibility rule: admins see every
// suggestion, other users only their own, anonymous visitors none.
func VisibleSuggestions(list []models.Suggestion, who *models.Identity) []models.Suggestion {
	if who == nil {
		return []models.Suggestion{}
	}
	if who.Role == models.RoleAdmin {
		return list
	}
	out := make([]models.Suggestion, 0, len(list))
	for _, s := range list {
		if s.IDUserCreator == who.ID {
			out = append(out, s)
		}
	}
	return out
}

// SuggestionView is a suggestion with its author resolved for admins.
type SuggestionView struct {
	models.Suggestion
	Author *models.User `json:"author,omitempty"`
}

// WithAuthors attaches user records to suggestions by creator id.
func WithAuthors(list []models.Suggestion, users []models.User) []SuggestionView {
	byID := make(map[int]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]SuggestionView, 0, len(list))
	for _, s := range list {
		v := SuggestionView{Suggestion: s}
		if u, ok := byID[s.IDUserCreator]; ok {
			v.Author = &u
		}
		out = append(out, v)
	}
	return out
}
