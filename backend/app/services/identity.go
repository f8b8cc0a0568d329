package services

import "time"

// Identity is the verified caller of an operation, decoded from a session token.
type Identity struct {
	UserID    string
	Username  string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}
