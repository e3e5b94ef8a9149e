package domain

import "time"

// User is the authenticated identity on whose behalf requests are made.
// It owns zero or more accounts and is read-only input to authorization.
type User struct {
	ID             string
	Name           string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
