// Package relations maintains the association lists between places and
// their amenities and reviews. On request paths it is the only component
// that writes Place.AmenityIDs and Place.ReviewIDs; everything else reads
// them as snapshots. The background sweep repairs the same lists through
// the store when they drift.
package relations

import (
	"context"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/app/domain/place"
	"github.com/staynest/listing_layer/internal/app/domain/review"
	"github.com/staynest/listing_layer/internal/app/storage"
	"github.com/staynest/listing_layer/internal/errors"
)

// Manager validates both ends of an association before mutating the
// owning place. Attach and detach operations are idempotent.
type Manager struct {
	places    storage.PlaceStore
	amenities storage.AmenityStore
	reviews   storage.ReviewStore
}

// NewManager creates a relations manager over the given stores.
func NewManager(places storage.PlaceStore, amenities storage.AmenityStore, reviews storage.ReviewStore) *Manager {
	return &Manager{places: places, amenities: amenities, reviews: reviews}
}

// AttachAmenity links an amenity to a place. A dangling amenity id is a
// validation failure, not a stale reference. Attaching an
// already-attached amenity is a no-op.
func (m *Manager) AttachAmenity(ctx context.Context, placeID, amenityID string) (place.Place, error) {
	p, err := m.places.GetPlace(ctx, placeID)
	if err != nil {
		return place.Place{}, err
	}
	if _, err := m.amenities.GetAmenity(ctx, amenityID); err != nil {
		if errors.IsNotFound(err) {
			return place.Place{}, errors.NewValidationError("amenity_id", "does not exist")
		}
		return place.Place{}, err
	}
	if p.HasAmenity(amenityID) {
		return p, nil
	}
	p.AmenityIDs = append(p.AmenityIDs, amenityID)
	return m.places.UpdatePlace(ctx, p)
}

// DetachAmenity removes the link between a place and an amenity. The
// amenity record itself is untouched. Detaching an absent link is a
// no-op.
func (m *Manager) DetachAmenity(ctx context.Context, placeID, amenityID string) (place.Place, error) {
	p, err := m.places.GetPlace(ctx, placeID)
	if err != nil {
		return place.Place{}, err
	}
	if !p.HasAmenity(amenityID) {
		return p, nil
	}
	p.AmenityIDs = remove(p.AmenityIDs, amenityID)
	return m.places.UpdatePlace(ctx, p)
}

// AttachReview links a review to a place. The review must exist and its
// PlaceID must name the target place.
func (m *Manager) AttachReview(ctx context.Context, placeID, reviewID string) (place.Place, error) {
	p, err := m.places.GetPlace(ctx, placeID)
	if err != nil {
		return place.Place{}, err
	}
	r, err := m.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return place.Place{}, err
	}
	if r.PlaceID != placeID {
		return place.Place{}, errors.NewValidationError("place_id", "review belongs to a different place")
	}
	if p.HasReview(reviewID) {
		return p, nil
	}
	p.ReviewIDs = append(p.ReviewIDs, reviewID)
	return m.places.UpdatePlace(ctx, p)
}

// DetachReview removes the link between a place and a review. The review
// record itself is untouched. Detaching an absent link is a no-op.
func (m *Manager) DetachReview(ctx context.Context, placeID, reviewID string) (place.Place, error) {
	p, err := m.places.GetPlace(ctx, placeID)
	if err != nil {
		return place.Place{}, err
	}
	if !p.HasReview(reviewID) {
		return p, nil
	}
	p.ReviewIDs = remove(p.ReviewIDs, reviewID)
	return m.places.UpdatePlace(ctx, p)
}

// ResolveAmenities expands a place's amenity id list into records,
// preserving attach order. Ids that no longer resolve are skipped.
func (m *Manager) ResolveAmenities(ctx context.Context, p place.Place) ([]amenity.Amenity, error) {
	result := make([]amenity.Amenity, 0, len(p.AmenityIDs))
	for _, id := range p.AmenityIDs {
		a, err := m.amenities.GetAmenity(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

// ResolveReviews expands a place's review id list into records,
// preserving attach order. Ids that no longer resolve are skipped.
func (m *Manager) ResolveReviews(ctx context.Context, p place.Place) ([]review.Review, error) {
	result := make([]review.Review, 0, len(p.ReviewIDs))
	for _, id := range p.ReviewIDs {
		r, err := m.reviews.GetReview(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
