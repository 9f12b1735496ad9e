// Package user defines the account entity: a registered person who may
// own places, write reviews, or administer the system.
package user

import "time"

// User is a registered account. PasswordHash holds the one-way transform
// of the credential and is never serialized.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Record returns the flat serializable form of the user. The password
// hash is excluded by design.
func (u User) Record() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"is_admin":   u.IsAdmin,
		"created_at": u.CreatedAt.Format(time.RFC3339),
		"updated_at": u.UpdatedAt.Format(time.RFC3339),
	}
}
