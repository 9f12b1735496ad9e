package facade

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/staynest/listing_layer/internal/app/storage/memory"
	"github.com/staynest/listing_layer/internal/errors"
	"github.com/staynest/listing_layer/internal/logging"
)

// fakeHasher is a deterministic stand-in for bcrypt so tests can assert
// on stored values without paying the hashing cost.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fakeHasher) Verify(plaintext, hash string) bool    { return hash == "hashed:"+plaintext }

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(store, fakeHasher{}, logging.New("facade-test", "error")), store
}

func mustCreateUser(t *testing.T, s *Service, email string) string {
	t.Helper()
	u, err := s.CreateUser(context.Background(), CreateUserInput{
		FirstName: "Test", LastName: "User", Email: email, Password: "secret1",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u.ID
}

func mustCreatePlace(t *testing.T, s *Service, ownerID string) string {
	t.Helper()
	p, err := s.CreatePlace(context.Background(), CreatePlaceInput{
		Title: "Loft", Price: 120, Latitude: 48.85, Longitude: 2.35, OwnerID: ownerID,
	})
	if err != nil {
		t.Fatalf("create place: %v", err)
	}
	return p.ID
}

func TestCreateUser_NeverStoresPlaintext(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, CreateUserInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	stored, err := store.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatal("plaintext password stored")
	}
	if stored.PasswordHash != "hashed:secret1" {
		t.Errorf("unexpected stored hash %q", stored.PasswordHash)
	}
	if _, ok := created.Record()["password"]; ok {
		t.Error("record must not expose the password")
	}
	if _, ok := created.Record()["password_hash"]; ok {
		t.Error("record must not expose the password hash")
	}
}

func TestCreateUser_Validation(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateUserInput
	}{
		{"missing first name", CreateUserInput{LastName: "L", Email: "a@b.c", Password: "secret1"}},
		{"long first name", CreateUserInput{FirstName: string(make([]byte, 51)), LastName: "L", Email: "a@b.c", Password: "secret1"}},
		{"email without at", CreateUserInput{FirstName: "F", LastName: "L", Email: "not-an-email", Password: "secret1"}},
		{"short password", CreateUserInput{FirstName: "F", LastName: "L", Email: "a@b.c", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.CreateUser(ctx, tc.in); !errors.IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateUser_EmailUniqueness(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	mustCreateUser(t, s, "ada@example.com")

	_, err := s.CreateUser(ctx, CreateUserInput{
		FirstName: "Other", LastName: "User", Email: "ada@example.com", Password: "secret1",
	})
	if !errors.IsValidationError(err) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}

	// Case-variant email is byte-distinct, so it registers fine.
	if _, err := s.CreateUser(ctx, CreateUserInput{
		FirstName: "Other", LastName: "User", Email: "ADA@example.com", Password: "secret1",
	}); err != nil {
		t.Errorf("case-variant email should register: %v", err)
	}
}

func TestCreateUser_ConcurrentSameEmail(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateUser(ctx, CreateUserInput{
				FirstName: "Race", LastName: "User",
				Email: "race@example.com", Password: "secret1",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.IsValidationError(err) {
			t.Errorf("unexpected error kind: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one registration to win, got %d", succeeded)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected a single stored user, got %d", len(users))
	}
}

func TestAuthenticate(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	id := mustCreateUser(t, s, "ada@example.com")

	u, err := s.Authenticate(ctx, "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != id {
		t.Errorf("wrong user authenticated")
	}

	if _, err := s.Authenticate(ctx, "ada@example.com", "wrong"); !errors.IsUnauthorized(err) {
		t.Errorf("expected unauthorized for bad password, got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "secret1"); !errors.IsUnauthorized(err) {
		t.Errorf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestUpdateUser_PartialUpdateIsolation(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	id := mustCreateUser(t, s, "ada@example.com")
	newName := "Renamed"

	updated, err := s.UpdateUser(ctx, id, UpdateUserInput{FirstName: &newName})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.FirstName != "Renamed" {
		t.Errorf("first name not updated")
	}
	if updated.LastName != "User" || updated.Email != "ada@example.com" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestCreatePlace_ValidationBoundaries(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	owner := mustCreateUser(t, s, "owner@example.com")

	valid := CreatePlaceInput{Title: "Loft", Price: 0, Latitude: 90, Longitude: -180, OwnerID: owner}
	if _, err := s.CreatePlace(ctx, valid); err != nil {
		t.Fatalf("boundary values must be accepted: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreatePlaceInput)
	}{
		{"negative price", func(in *CreatePlaceInput) { in.Price = -0.01 }},
		{"latitude above range", func(in *CreatePlaceInput) { in.Latitude = 90.01 }},
		{"latitude below range", func(in *CreatePlaceInput) { in.Latitude = -90.01 }},
		{"longitude above range", func(in *CreatePlaceInput) { in.Longitude = 180.01 }},
		{"longitude below range", func(in *CreatePlaceInput) { in.Longitude = -180.01 }},
		{"empty title", func(in *CreatePlaceInput) { in.Title = "  " }},
		{"long title", func(in *CreatePlaceInput) { in.Title = string(make([]byte, 101)) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if _, err := s.CreatePlace(ctx, in); !errors.IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreatePlace_NoPartialWriteOnBadAmenity(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	owner := mustCreateUser(t, s, "owner@example.com")

	_, err := s.CreatePlace(ctx, CreatePlaceInput{
		Title: "Loft", Price: 100, OwnerID: owner, AmenityIDs: []string{"missing"},
	})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not-found for dangling amenity, got %v", err)
	}

	places, err := s.ListPlaces(ctx)
	if err != nil {
		t.Fatalf("list places: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("failed create left a place behind: %v", places)
	}
}

func TestCreatePlace_UnknownOwner(t *testing.T) {
	s, _ := newService(t)

	_, err := s.CreatePlace(context.Background(), CreatePlaceInput{
		Title: "Loft", Price: 100, OwnerID: "ghost",
	})
	if !errors.IsNotFound(err) {
		t.Errorf("expected not-found for unknown owner, got %v", err)
	}
}

func TestCreateReview_Rules(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner@example.com")
	guest := mustCreateUser(t, s, "guest@example.com")
	placeID := mustCreatePlace(t, s, owner)

	// Owner cannot review their own place.
	_, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: placeID, UserID: owner, Rating: 5, Text: "mine"})
	if !errors.IsValidationError(err) {
		t.Errorf("expected validation error for self-review, got %v", err)
	}

	created, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: placeID, UserID: guest, Rating: 4, Text: "nice"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	// The review is attached to the place as part of the same operation.
	p, err := s.GetPlace(ctx, placeID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	if !p.HasReview(created.ID) {
		t.Error("review not attached to place")
	}

	// Second review by the same user is rejected.
	_, err = s.CreateReview(ctx, CreateReviewInput{PlaceID: placeID, UserID: guest, Rating: 3, Text: "again"})
	if !errors.IsValidationError(err) {
		t.Errorf("expected validation error for duplicate review, got %v", err)
	}
}

func TestCreateReview_RatingBoundaries(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner@example.com")
	placeID := mustCreatePlace(t, s, owner)

	for i, rating := range []int{0, 6, -1} {
		guest := mustCreateUser(t, s, fmt.Sprintf("guest%d@example.com", i))
		_, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: placeID, UserID: guest, Rating: rating, Text: "x"})
		if !errors.IsValidationError(err) {
			t.Errorf("rating %d: expected validation error, got %v", rating, err)
		}
	}
	for _, rating := range []int{1, 5} {
		guest := mustCreateUser(t, s, fmt.Sprintf("edge%d@example.com", rating))
		if _, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: placeID, UserID: guest, Rating: rating, Text: "x"}); err != nil {
			t.Errorf("rating %d must be accepted: %v", rating, err)
		}
	}
}

func TestDeleteReview_DetachesFromPlace(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner@example.com")
	guest := mustCreateUser(t, s, "guest@example.com")
	placeID := mustCreatePlace(t, s, owner)

	r, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: placeID, UserID: guest, Rating: 4, Text: "nice"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if err := s.DeleteReview(ctx, r.ID); err != nil {
		t.Fatalf("delete review: %v", err)
	}

	p, err := s.GetPlace(ctx, placeID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	if p.HasReview(r.ID) {
		t.Error("deleted review still attached")
	}
	if _, err := s.GetReview(ctx, r.ID); !errors.IsNotFound(err) {
		t.Errorf("expected not-found for deleted review, got %v", err)
	}
}

func TestDeleteUser_Cascades(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner@example.com")
	guest := mustCreateUser(t, s, "guest@example.com")
	otherOwner := mustCreateUser(t, s, "other@example.com")

	ownedPlace := mustCreatePlace(t, s, owner)
	otherPlace := mustCreatePlace(t, s, otherOwner)

	// A review on the owned place, and one written by the owner elsewhere.
	guestReview, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: ownedPlace, UserID: guest, Rating: 4, Text: "nice"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	ownerReview, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: otherPlace, UserID: owner, Rating: 3, Text: "fine"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	if err := s.DeleteUser(ctx, owner); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := s.GetPlace(ctx, ownedPlace); !errors.IsNotFound(err) {
		t.Errorf("owned place should be gone, got %v", err)
	}
	if _, err := s.GetReview(ctx, guestReview.ID); !errors.IsNotFound(err) {
		t.Errorf("review on owned place should be gone, got %v", err)
	}
	if _, err := s.GetReview(ctx, ownerReview.ID); !errors.IsNotFound(err) {
		t.Errorf("owner's review elsewhere should be gone, got %v", err)
	}

	// The other owner's place survives with the review detached.
	p, err := s.GetPlace(ctx, otherPlace)
	if err != nil {
		t.Fatalf("other place should survive: %v", err)
	}
	if p.HasReview(ownerReview.ID) {
		t.Error("dangling review id left on surviving place")
	}
}

func TestDeleteAmenity_DetachesEverywhere(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner@example.com")
	a, err := s.CreateAmenity(ctx, CreateAmenityInput{Name: "WiFi"})
	if err != nil {
		t.Fatalf("create amenity: %v", err)
	}

	p1 := mustCreatePlace(t, s, owner)
	p2 := mustCreatePlace(t, s, owner)
	for _, placeID := range []string{p1, p2} {
		if _, err := s.AttachAmenity(ctx, placeID, a.ID); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}

	if err := s.DeleteAmenity(ctx, a.ID); err != nil {
		t.Fatalf("delete amenity: %v", err)
	}

	for _, placeID := range []string{p1, p2} {
		p, err := s.GetPlace(ctx, placeID)
		if err != nil {
			t.Fatalf("get place: %v", err)
		}
		if p.HasAmenity(a.ID) {
			t.Errorf("place %s still references deleted amenity", placeID)
		}
	}
}

func TestGetPlaceDetail(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner@example.com")
	guest := mustCreateUser(t, s, "guest@example.com")
	a, err := s.CreateAmenity(ctx, CreateAmenityInput{Name: "WiFi"})
	if err != nil {
		t.Fatalf("create amenity: %v", err)
	}

	p, err := s.CreatePlace(ctx, CreatePlaceInput{
		Title: "Loft", Price: 100, OwnerID: owner, AmenityIDs: []string{a.ID},
	})
	if err != nil {
		t.Fatalf("create place: %v", err)
	}
	if _, err := s.CreateReview(ctx, CreateReviewInput{PlaceID: p.ID, UserID: guest, Rating: 5, Text: "great"}); err != nil {
		t.Fatalf("create review: %v", err)
	}

	detail, err := s.GetPlaceDetail(ctx, p.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Owner.ID != owner {
		t.Errorf("wrong owner in detail")
	}
	if len(detail.Amenities) != 1 || detail.Amenities[0].ID != a.ID {
		t.Errorf("unexpected amenities %v", detail.Amenities)
	}
	if len(detail.Reviews) != 1 {
		t.Errorf("unexpected reviews %v", detail.Reviews)
	}
}

func TestUpdatePlace_OwnerNotChangeable(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner@example.com")
	placeID := mustCreatePlace(t, s, owner)

	price := 250.0
	updated, err := s.UpdatePlace(ctx, placeID, UpdatePlaceInput{Price: &price})
	if err != nil {
		t.Fatalf("update place: %v", err)
	}
	if updated.Price != 250 {
		t.Errorf("price not updated")
	}
	if updated.OwnerID != owner {
		t.Errorf("owner changed by update")
	}
	if updated.Title != "Loft" {
		t.Errorf("untouched field changed")
	}
}
