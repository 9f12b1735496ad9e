// Package storage declares the backend-agnostic persistence contracts.
// The facade and the relations manager are written against these
// interfaces only; the concrete backend is chosen once at wiring time.
package storage

import (
	"context"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/app/domain/place"
	"github.com/staynest/listing_layer/internal/app/domain/review"
	"github.com/staynest/listing_layer/internal/app/domain/user"
)

// UserStore persists user records. Lookups that miss return a not-found
// error kind; an absent record is a normal outcome for callers that
// branch with errors.IsNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	// GetUserByEmail is the single-attribute lookup backing the email
	// uniqueness check. The match is byte-exact.
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// AmenityStore persists amenity records.
type AmenityStore interface {
	CreateAmenity(ctx context.Context, a amenity.Amenity) (amenity.Amenity, error)
	UpdateAmenity(ctx context.Context, a amenity.Amenity) (amenity.Amenity, error)
	GetAmenity(ctx context.Context, id string) (amenity.Amenity, error)
	ListAmenities(ctx context.Context) ([]amenity.Amenity, error)
	DeleteAmenity(ctx context.Context, id string) error
}

// PlaceStore persists place records including their association id lists.
// Deletion never cascades; cascading is the facade's responsibility.
type PlaceStore interface {
	CreatePlace(ctx context.Context, p place.Place) (place.Place, error)
	UpdatePlace(ctx context.Context, p place.Place) (place.Place, error)
	GetPlace(ctx context.Context, id string) (place.Place, error)
	ListPlaces(ctx context.Context) ([]place.Place, error)
	DeletePlace(ctx context.Context, id string) error
}

// ReviewStore persists review records.
type ReviewStore interface {
	CreateReview(ctx context.Context, r review.Review) (review.Review, error)
	UpdateReview(ctx context.Context, r review.Review) (review.Review, error)
	GetReview(ctx context.Context, id string) (review.Review, error)
	ListReviews(ctx context.Context) ([]review.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// Store is the union implemented by each backend.
type Store interface {
	UserStore
	AmenityStore
	PlaceStore
	ReviewStore
}
