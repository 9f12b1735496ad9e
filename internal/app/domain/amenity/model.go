// Package amenity defines a named feature attachable to places.
package amenity

import "time"

// Amenity is a feature (wifi, parking, ...) that places may reference.
type Amenity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Record returns the flat serializable form of the amenity.
func (a Amenity) Record() map[string]interface{} {
	return map[string]interface{}{
		"id":          a.ID,
		"name":        a.Name,
		"description": a.Description,
		"created_at":  a.CreatedAt.Format(time.RFC3339),
		"updated_at":  a.UpdatedAt.Format(time.RFC3339),
	}
}
