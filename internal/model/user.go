package model

import "time"

// DefaultUserName is used when a user signs in without a display name.
const DefaultUserName = "Anonymous"

// User is the signed-in owner of roadmaps.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Avatar    string    `json:"avatar" db:"avatar"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
