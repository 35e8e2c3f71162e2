package types

import "time"

// User is the admin account. Rows are created out-of-band by the
// seed-admin command and only read by the HTTP server.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id" db:"id"`

	// Username is the unique login name.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt hash of the password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SessionUser is the identity carried by a session token and echoed by login.
type SessionUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
