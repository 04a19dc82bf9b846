package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	UserID       string         `db:"id"`
	Email        string         `db:"email"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	PasswordHash sql.NullString `db:"password_hash"` // NULL for accounts created through Google
	CreatedAt    time.Time      `db:"created_at"`
}
