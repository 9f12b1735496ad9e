// Package memory provides the in-process storage backend. Data lives for
// the lifetime of the process; it is the default backend for tests and
// local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/app/domain/place"
	"github.com/staynest/listing_layer/internal/app/domain/review"
	"github.com/staynest/listing_layer/internal/app/domain/user"
	"github.com/staynest/listing_layer/internal/app/storage"
	"github.com/staynest/listing_layer/internal/errors"
)

// Store is an in-memory implementation of the storage interfaces. It is
// safe for concurrent use. Callers always receive defensive copies, so a
// held record never aliases store state.
type Store struct {
	mu        sync.RWMutex
	users     map[string]user.User
	amenities map[string]amenity.Amenity
	places    map[string]place.Place
	reviews   map[string]review.Review
}

var _ storage.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:     make(map[string]user.User),
		amenities: make(map[string]amenity.Amenity),
		places:    make(map[string]place.Place),
		reviews:   make(map[string]review.Review),
	}
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, errors.NewConflictError("user", u.ID)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, errors.NewNotFoundError("user", u.ID)
	}

	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, errors.NewNotFoundError("user", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, errors.NewNotFoundError("user", "")
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	return result, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errors.NewNotFoundError("user", id)
	}
	delete(s.users, id)
	return nil
}

// AmenityStore implementation -------------------------------------------------

func (s *Store) CreateAmenity(_ context.Context, a amenity.Amenity) (amenity.Amenity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	} else if _, exists := s.amenities[a.ID]; exists {
		return amenity.Amenity{}, errors.NewConflictError("amenity", a.ID)
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	s.amenities[a.ID] = a
	return a, nil
}

func (s *Store) UpdateAmenity(_ context.Context, a amenity.Amenity) (amenity.Amenity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.amenities[a.ID]
	if !ok {
		return amenity.Amenity{}, errors.NewNotFoundError("amenity", a.ID)
	}

	a.CreatedAt = original.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	s.amenities[a.ID] = a
	return a, nil
}

func (s *Store) GetAmenity(_ context.Context, id string) (amenity.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.amenities[id]
	if !ok {
		return amenity.Amenity{}, errors.NewNotFoundError("amenity", id)
	}
	return a, nil
}

func (s *Store) ListAmenities(_ context.Context) ([]amenity.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]amenity.Amenity, 0, len(s.amenities))
	for _, a := range s.amenities {
		result = append(result, a)
	}
	return result, nil
}

func (s *Store) DeleteAmenity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.amenities[id]; !ok {
		return errors.NewNotFoundError("amenity", id)
	}
	delete(s.amenities, id)
	return nil
}

// PlaceStore implementation ---------------------------------------------------

func (s *Store) CreatePlace(_ context.Context, p place.Place) (place.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, exists := s.places[p.ID]; exists {
		return place.Place{}, errors.NewConflictError("place", p.ID)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.AmenityIDs = cloneIDs(p.AmenityIDs)
	p.ReviewIDs = cloneIDs(p.ReviewIDs)

	s.places[p.ID] = p
	return clonePlace(p), nil
}

func (s *Store) UpdatePlace(_ context.Context, p place.Place) (place.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.places[p.ID]
	if !ok {
		return place.Place{}, errors.NewNotFoundError("place", p.ID)
	}

	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	p.AmenityIDs = cloneIDs(p.AmenityIDs)
	p.ReviewIDs = cloneIDs(p.ReviewIDs)

	s.places[p.ID] = p
	return clonePlace(p), nil
}

func (s *Store) GetPlace(_ context.Context, id string) (place.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.places[id]
	if !ok {
		return place.Place{}, errors.NewNotFoundError("place", id)
	}
	return clonePlace(p), nil
}

func (s *Store) ListPlaces(_ context.Context) ([]place.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]place.Place, 0, len(s.places))
	for _, p := range s.places {
		result = append(result, clonePlace(p))
	}
	return result, nil
}

func (s *Store) DeletePlace(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.places[id]; !ok {
		return errors.NewNotFoundError("place", id)
	}
	delete(s.places, id)
	return nil
}

// ReviewStore implementation --------------------------------------------------

func (s *Store) CreateReview(_ context.Context, r review.Review) (review.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if _, exists := s.reviews[r.ID]; exists {
		return review.Review{}, errors.NewConflictError("review", r.ID)
	}

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	s.reviews[r.ID] = r
	return r, nil
}

func (s *Store) UpdateReview(_ context.Context, r review.Review) (review.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.reviews[r.ID]
	if !ok {
		return review.Review{}, errors.NewNotFoundError("review", r.ID)
	}

	r.CreatedAt = original.CreatedAt
	r.UpdatedAt = time.Now().UTC()

	s.reviews[r.ID] = r
	return r, nil
}

func (s *Store) GetReview(_ context.Context, id string) (review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return review.Review{}, errors.NewNotFoundError("review", id)
	}
	return r, nil
}

func (s *Store) ListReviews(_ context.Context) ([]review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]review.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		result = append(result, r)
	}
	return result, nil
}

func (s *Store) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[id]; !ok {
		return errors.NewNotFoundError("review", id)
	}
	delete(s.reviews, id)
	return nil
}

// helpers ---------------------------------------------------------------------

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func clonePlace(p place.Place) place.Place {
	p.AmenityIDs = cloneIDs(p.AmenityIDs)
	p.ReviewIDs = cloneIDs(p.ReviewIDs)
	return p
}
