package domain

import "time"

// User is an account holder. Authentication data lives with the session
// provider; the ledger only ever needs the id.
type User struct {
	UserID       string    `json:"userID"` // UUID
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the optional personal data supplied at sign-up.
type Profile struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// Session is an issued sign-in.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
