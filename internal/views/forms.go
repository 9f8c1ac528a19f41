package views

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/swimtrack/swimtrack/internal/models"
)

// datetimeLocal is the layout an HTML datetime-local input submits.
const datetimeLocal = "2006-01-02T15:04"

// minPasswordLen is the shortest password the register form accepts.
const minPasswordLen = 6

// FieldErrors maps form field names to messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// ParseFormTime accepts RFC 3339 or datetime-local values. Local values are
// read in loc.
func ParseFormTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(datetimeLocal, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// TrainForm is the training editor's submitted state. Empty dates fall back
// to now and now plus three months; a nil Active means active.
type TrainForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
	Published   string `json:"published"`
	Expired     string `json:"expired"`
}

// Validate checks the form and builds the API payload with UTC times.
func (f TrainForm) Validate(now time.Time) (models.TrainInput, error) {
	title, desc, active, published, expired, errs := validateDated(f.Title, f.Description, f.Active, f.Published, f.Expired, now)
	if err := errs.orNil(); err != nil {
		return models.TrainInput{}, err
	}
	return models.TrainInput{
		Title:       title,
		Description: desc,
		Active:      active,
		Published:   published,
		Expired:     expired,
	}, nil
}

// SuggestionForm has the same shape and rules as TrainForm.
type SuggestionForm TrainForm

// Validate checks the form and builds the API payload.
func (f SuggestionForm) Validate(now time.Time) (models.SuggestionInput, error) {
	title, desc, active, published, expired, errs := validateDated(f.Title, f.Description, f.Active, f.Published, f.Expired, now)
	if err := errs.orNil(); err != nil {
		return models.SuggestionInput{}, err
	}
	return models.SuggestionInput{
		Title:       title,
		Description: desc,
		Active:      active,
		Published:   published,
		Expired:     expired,
	}, nil
}

func validateDated(title, desc string, active *bool, published, expired string, now time.Time) (string, string, bool, time.Time, time.Time, FieldErrors) {
	errs := FieldErrors{}
	title = strings.TrimSpace(title)
	if title == "" {
		errs["title"] = "title is required"
	}
	if strings.TrimSpace(desc) == "" {
		errs["description"] = "description is required"
	}

	pub := now
	if published != "" {
		t, err := ParseFormTime(published, now.Location())
		if err != nil {
			errs["published"] = err.Error()
		}
		pub = t
	}
	exp := pub.AddDate(0, 3, 0)
	if expired != "" {
		t, err := ParseFormTime(expired, now.Location())
		if err != nil {
			errs["expired"] = err.Error()
		}
		exp = t
	}
	if _, bad := errs["published"]; !bad {
		if _, bad := errs["expired"]; !bad && exp.Before(pub) {
			errs["expired"] = "expiry must not precede publication"
		}
	}

	isActive := true
	if active != nil {
		isActive = *active
	}
	return title, desc, isActive, pub.UTC(), exp.UTC(), errs
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Name               string `json:"name"`
	Surname            string `json:"surname"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	AccepNotifications bool   `json:"accepNotifications"`
}

// Validate checks required fields, email shape and password length.
func (f RegisterForm) Validate() (models.Registration, error) {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "name is required"
	}
	email, msg := checkEmail(f.Email)
	if msg != "" {
		errs["email"] = msg
	}
	if len(f.Password) < minPasswordLen {
		errs["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	}
	if err := errs.orNil(); err != nil {
		return models.Registration{}, err
	}
	return models.Registration{
		Name:               strings.TrimSpace(f.Name),
		Surname:            strings.TrimSpace(f.Surname),
		Email:              email,
		Password:           f.Password,
		AccepNotifications: f.AccepNotifications,
	}, nil
}

// LoginForm is the login form.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks both fields are present.
func (f LoginForm) Validate() (models.Credentials, error) {
	errs := FieldErrors{}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		errs["email"] = "email is required"
	}
	if f.Password == "" {
		errs["password"] = "password is required"
	}
	if err := errs.orNil(); err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Email: email, Password: f.Password}, nil
}

// ProfileForm is the profile editor. Nil fields are left unchanged.
type ProfileForm struct {
	Name               *string `json:"name"`
	Surname            *string `json:"surname"`
	AccepNotifications *bool   `json:"accepNotifications"`
}

// Validate rejects a blank name and trims the text fields.
func (f ProfileForm) Validate() (models.ProfileUpdate, error) {
	out := models.ProfileUpdate{AccepNotifications: f.AccepNotifications}
	if f.Name != nil {
		name := strings.TrimSpace(*f.Name)
		if name == "" {
			return models.ProfileUpdate{}, FieldErrors{"name": "name must not be blank"}
		}
		out.Name = &name
	}
	if f.Surname != nil {
		surname := strings.TrimSpace(*f.Surname)
		out.Surname = &surname
	}
	return out, nil
}

func checkEmail(raw string) (string, string) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", "email is required"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", "email is not valid"
	}
	return email, ""
}
