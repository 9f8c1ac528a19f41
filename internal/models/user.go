package models

// Role values the API assigns to users.
const (
	RoleAdmin   = "admin"
	RolePremium = "premium"
	RoleUser    = "user"
)

// User is a full user record as listed for admins or returned by the profile endpoint.
type User struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Surname            string `json:"surname"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Active             bool   `json:"active"`
	AccepNotifications bool   `json:"accepNotifications"`
}

// Identity is the session payload returned by /auth/user and /auth/login.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name               string `json:"name"`
	Surname            string `json:"surname"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	AccepNotifications bool   `json:"accepNotifications"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name               *string `json:"name,omitempty"`
	Surname            *string `json:"surname,omitempty"`
	AccepNotifications *bool   `json:"accepNotifications,omitempty"`
}
