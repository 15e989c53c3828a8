package models

import "time"

// User mirrors the auth provider's identity in our own table so folders
// and images have a local owner row to reference.
type User struct {
	ID        string    `json:"id" db:"id"` // auth provider user ID, not a UUID
	Email     string    `json:"email" db:"email"`
	FirstName *string   `json:"firstName" db:"first_name"`
	LastName  *string   `json:"lastName" db:"last_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
