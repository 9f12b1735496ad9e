package facade

import (
	"context"
	"strings"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/app/domain/place"
	"github.com/staynest/listing_layer/internal/app/domain/review"
	"github.com/staynest/listing_layer/internal/app/domain/user"
	"github.com/staynest/listing_layer/internal/errors"
)

// CreatePlaceInput carries the fields accepted when listing a place.
type CreatePlaceInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenities"`
}

// UpdatePlaceInput carries the fields a place update may change. The
// owner is fixed at creation and cannot be reassigned.
type UpdatePlaceInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	AmenityIDs  *[]string `json:"amenities"`
}

// PlaceDetail is a place expanded with its owner and resolved
// associations, the shape returned by detail lookups.
type PlaceDetail struct {
	Place     place.Place       `json:"place"`
	Owner     user.User         `json:"owner"`
	Amenities []amenity.Amenity `json:"amenities"`
	Reviews   []review.Review   `json:"reviews"`
}

// CreatePlace lists a new place. The owner and every referenced amenity
// are resolved before the record is written, so a dangling reference
// fails the whole call with nothing stored.
func (s *Service) CreatePlace(ctx context.Context, in CreatePlaceInput) (place.Place, error) {
	if err := validatePlaceFields(in.Title, in.Price, in.Latitude, in.Longitude); err != nil {
		return place.Place{}, err
	}
	if in.OwnerID == "" {
		return place.Place{}, errors.RequiredError("owner_id")
	}
	if _, err := s.store.GetUser(ctx, in.OwnerID); err != nil {
		return place.Place{}, err
	}
	for _, id := range in.AmenityIDs {
		if _, err := s.store.GetAmenity(ctx, id); err != nil {
			return place.Place{}, err
		}
	}

	created, err := s.store.CreatePlace(ctx, place.Place{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OwnerID:     in.OwnerID,
		AmenityIDs:  dedupe(in.AmenityIDs),
	})
	if err != nil {
		return place.Place{}, err
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"place_id": created.ID,
		"owner_id": created.OwnerID,
	}).Info("place created")
	return created, nil
}

// GetPlace fetches one place by id.
func (s *Service) GetPlace(ctx context.Context, id string) (place.Place, error) {
	return s.store.GetPlace(ctx, id)
}

// GetPlaceDetail fetches a place with its owner and resolved amenities
// and reviews. Dangling association ids are skipped rather than failing
// the lookup.
func (s *Service) GetPlaceDetail(ctx context.Context, id string) (PlaceDetail, error) {
	p, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return PlaceDetail{}, err
	}
	owner, err := s.store.GetUser(ctx, p.OwnerID)
	if err != nil && !errors.IsNotFound(err) {
		return PlaceDetail{}, err
	}
	amenities, err := s.relations.ResolveAmenities(ctx, p)
	if err != nil {
		return PlaceDetail{}, err
	}
	reviews, err := s.relations.ResolveReviews(ctx, p)
	if err != nil {
		return PlaceDetail{}, err
	}
	return PlaceDetail{Place: p, Owner: owner, Amenities: amenities, Reviews: reviews}, nil
}

// ListPlaces returns all places.
func (s *Service) ListPlaces(ctx context.Context) ([]place.Place, error) {
	return s.store.ListPlaces(ctx)
}

// UpdatePlace applies a partial update. Replacing the amenity list
// validates every id before the write.
func (s *Service) UpdatePlace(ctx context.Context, id string, in UpdatePlaceInput) (place.Place, error) {
	unlock := s.locks.lock("place:" + id)
	defer unlock()

	current, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return place.Place{}, err
	}

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return place.Place{}, err
		}
		current.Title = *in.Title
	}
	if in.Description != nil {
		current.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return place.Place{}, errors.NewValidationError("price", "must not be negative")
		}
		current.Price = *in.Price
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return place.Place{}, errors.NewValidationError("latitude", "must be between -90 and 90")
		}
		current.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return place.Place{}, errors.NewValidationError("longitude", "must be between -180 and 180")
		}
		current.Longitude = *in.Longitude
	}
	if in.AmenityIDs != nil {
		for _, amenityID := range *in.AmenityIDs {
			if _, err := s.store.GetAmenity(ctx, amenityID); err != nil {
				return place.Place{}, err
			}
		}
		current.AmenityIDs = dedupe(*in.AmenityIDs)
	}

	return s.store.UpdatePlace(ctx, current)
}

// DeletePlace removes the place and every review written about it.
func (s *Service) DeletePlace(ctx context.Context, id string) error {
	unlock := s.locks.lock("place:" + id)
	defer unlock()

	p, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return err
	}

	for _, reviewID := range p.ReviewIDs {
		if err := s.store.DeleteReview(ctx, reviewID); err != nil && !errors.IsNotFound(err) {
			return err
		}
	}

	if err := s.store.DeletePlace(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).WithField("place_id", id).Info("place deleted")
	return nil
}

// AttachAmenity links an existing amenity to a place.
func (s *Service) AttachAmenity(ctx context.Context, placeID, amenityID string) (place.Place, error) {
	unlock := s.locks.lock("place:" + placeID)
	defer unlock()
	return s.relations.AttachAmenity(ctx, placeID, amenityID)
}

// DetachAmenity removes an amenity link from a place.
func (s *Service) DetachAmenity(ctx context.Context, placeID, amenityID string) (place.Place, error) {
	unlock := s.locks.lock("place:" + placeID)
	defer unlock()
	return s.relations.DetachAmenity(ctx, placeID, amenityID)
}

func validatePlaceFields(title string, price, lat, lon float64) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if price < 0 {
		return errors.NewValidationError("price", "must not be negative")
	}
	if lat < -90 || lat > 90 {
		return errors.NewValidationError("latitude", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return errors.NewValidationError("longitude", "must be between -180 and 180")
	}
	return nil
}

func validateTitle(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.RequiredError("title")
	}
	if len(value) > 100 {
		return errors.NewValidationError("title", "must be at most 100 characters")
	}
	return nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
