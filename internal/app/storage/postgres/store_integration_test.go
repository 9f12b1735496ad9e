package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/app/domain/place"
	"github.com/staynest/listing_layer/internal/app/domain/user"
	"github.com/staynest/listing_layer/internal/errors"
)

// openTestStore connects to the database named by TEST_POSTGRES_DSN.
// The test is skipped when the variable is unset.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestIntegration_UserRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, user.User{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "it-" + t.Name() + "@example.com", PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { _ = store.DeleteUser(ctx, created.ID) })

	got, err := store.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != created.Email || got.PasswordHash != "hash" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, err := store.CreateUser(ctx, user.User{
		FirstName: "Dup", LastName: "User", Email: created.Email, PasswordHash: "hash",
	}); !errors.IsConflict(err) {
		t.Errorf("expected conflict on duplicate email, got %v", err)
	}
}

func TestIntegration_PlaceAssociationsOrdered(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var amenityIDs []string
	for _, name := range []string{"WiFi", "Pool", "Parking"} {
		a, err := store.CreateAmenity(ctx, amenity.Amenity{Name: name})
		if err != nil {
			t.Fatalf("create amenity: %v", err)
		}
		id := a.ID
		t.Cleanup(func() { _ = store.DeleteAmenity(ctx, id) })
		amenityIDs = append(amenityIDs, id)
	}

	created, err := store.CreatePlace(ctx, place.Place{
		Title: "Loft", Price: 100, OwnerID: "owner", AmenityIDs: amenityIDs,
	})
	if err != nil {
		t.Fatalf("create place: %v", err)
	}
	t.Cleanup(func() { _ = store.DeletePlace(ctx, created.ID) })

	got, err := store.GetPlace(ctx, created.ID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	for i, id := range amenityIDs {
		if got.AmenityIDs[i] != id {
			t.Fatalf("order not preserved at %d: got %v want %v", i, got.AmenityIDs, amenityIDs)
		}
	}

	// Reordering through update rewrites the link table.
	reordered := []string{amenityIDs[2], amenityIDs[0], amenityIDs[1]}
	got.AmenityIDs = reordered
	if _, err := store.UpdatePlace(ctx, got); err != nil {
		t.Fatalf("update place: %v", err)
	}
	after, err := store.GetPlace(ctx, created.ID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	for i, id := range reordered {
		if after.AmenityIDs[i] != id {
			t.Fatalf("reorder not persisted at %d: got %v want %v", i, after.AmenityIDs, reordered)
		}
	}
}
