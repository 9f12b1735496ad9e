package facade

import (
	"context"
	"strings"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/errors"
)

// CreateAmenityInput carries the fields accepted when creating an amenity.
type CreateAmenityInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateAmenityInput carries the fields an amenity update may change.
type UpdateAmenityInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateAmenity creates a new amenity.
func (s *Service) CreateAmenity(ctx context.Context, in CreateAmenityInput) (amenity.Amenity, error) {
	if err := validateAmenityName(in.Name); err != nil {
		return amenity.Amenity{}, err
	}
	return s.store.CreateAmenity(ctx, amenity.Amenity{Name: in.Name, Description: in.Description})
}

// GetAmenity fetches one amenity by id.
func (s *Service) GetAmenity(ctx context.Context, id string) (amenity.Amenity, error) {
	return s.store.GetAmenity(ctx, id)
}

// ListAmenities returns all amenities.
func (s *Service) ListAmenities(ctx context.Context) ([]amenity.Amenity, error) {
	return s.store.ListAmenities(ctx)
}

// UpdateAmenity applies a partial update.
func (s *Service) UpdateAmenity(ctx context.Context, id string, in UpdateAmenityInput) (amenity.Amenity, error) {
	unlock := s.locks.lock("amenity:" + id)
	defer unlock()

	current, err := s.store.GetAmenity(ctx, id)
	if err != nil {
		return amenity.Amenity{}, err
	}

	if in.Name != nil {
		if err := validateAmenityName(*in.Name); err != nil {
			return amenity.Amenity{}, err
		}
		current.Name = *in.Name
	}
	if in.Description != nil {
		current.Description = *in.Description
	}

	return s.store.UpdateAmenity(ctx, current)
}

// DeleteAmenity removes the amenity and detaches it from every place
// that references it, so no place is left holding a dangling id.
func (s *Service) DeleteAmenity(ctx context.Context, id string) error {
	if _, err := s.store.GetAmenity(ctx, id); err != nil {
		return err
	}

	places, err := s.store.ListPlaces(ctx)
	if err != nil {
		return err
	}
	for _, p := range places {
		if !p.HasAmenity(id) {
			continue
		}
		unlock := s.locks.lock("place:" + p.ID)
		_, err := s.relations.DetachAmenity(ctx, p.ID, id)
		unlock()
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
	}

	if err := s.store.DeleteAmenity(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).WithField("amenity_id", id).Info("amenity deleted")
	return nil
}

func validateAmenityName(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.RequiredError("name")
	}
	if len(value) > 50 {
		return errors.NewValidationError("name", "must be at most 50 characters")
	}
	return nil
}
