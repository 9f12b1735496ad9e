// Package place defines the rentable property entity.
package place

import "time"

// Place is a rentable property owned by a user. AmenityIDs and ReviewIDs
// are association state owned by the relations manager; all other
// components treat them as read-only snapshots.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	OwnerID     string    `json:"owner_id"`
	AmenityIDs  []string  `json:"amenities"`
	ReviewIDs   []string  `json:"reviews"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasAmenity reports whether the amenity is already attached.
func (p Place) HasAmenity(amenityID string) bool {
	for _, id := range p.AmenityIDs {
		if id == amenityID {
			return true
		}
	}
	return false
}

// HasReview reports whether the review is already attached.
func (p Place) HasReview(reviewID string) bool {
	for _, id := range p.ReviewIDs {
		if id == reviewID {
			return true
		}
	}
	return false
}

// Record returns the flat serializable form of the place.
func (p Place) Record() map[string]interface{} {
	amenities := p.AmenityIDs
	if amenities == nil {
		amenities = []string{}
	}
	reviews := p.ReviewIDs
	if reviews == nil {
		reviews = []string{}
	}
	return map[string]interface{}{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"latitude":    p.Latitude,
		"longitude":   p.Longitude,
		"owner_id":    p.OwnerID,
		"amenities":   amenities,
		"reviews":     reviews,
		"created_at":  p.CreatedAt.Format(time.RFC3339),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339),
	}
}
