package models

import "time"

// User is a registered account. Password holds the bcrypt hash, never the
// plain text, and is excluded from JSON output.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
