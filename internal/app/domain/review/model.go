// Package review defines the rating-and-text entity tied to exactly one
// user and one place.
package review

import "time"

// Review is a user's rating of a place.
type Review struct {
	ID        string    `json:"id"`
	PlaceID   string    `json:"place_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record returns the flat serializable form of the review.
func (r Review) Record() map[string]interface{} {
	return map[string]interface{}{
		"id":         r.ID,
		"place_id":   r.PlaceID,
		"user_id":    r.UserID,
		"rating":     r.Rating,
		"text":       r.Text,
		"created_at": r.CreatedAt.Format(time.RFC3339),
		"updated_at": r.UpdatedAt.Format(time.RFC3339),
	}
}
