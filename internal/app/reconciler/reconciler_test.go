package reconciler

import (
	"context"
	"testing"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/app/domain/place"
	"github.com/staynest/listing_layer/internal/app/domain/review"
	"github.com/staynest/listing_layer/internal/app/storage/memory"
	"github.com/staynest/listing_layer/internal/logging"
)

func TestSweep_RemovesDanglingIDs(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	a, _ := store.CreateAmenity(ctx, amenity.Amenity{Name: "WiFi"})
	p, err := store.CreatePlace(ctx, place.Place{
		Title:      "Loft",
		AmenityIDs: []string{a.ID, "gone-amenity"},
		ReviewIDs:  []string{"gone-review"},
	})
	if err != nil {
		t.Fatalf("create place: %v", err)
	}

	r := New(store, "@every 5m", logging.New("reconciler-test", "error"))
	if err := r.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	got, err := store.GetPlace(ctx, p.ID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	if len(got.AmenityIDs) != 1 || got.AmenityIDs[0] != a.ID {
		t.Errorf("amenity list = %v, want only %s", got.AmenityIDs, a.ID)
	}
	if len(got.ReviewIDs) != 0 {
		t.Errorf("review list = %v, want empty", got.ReviewIDs)
	}
}

func TestSweep_RestoresMissingBackReference(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	p, _ := store.CreatePlace(ctx, place.Place{Title: "Loft"})
	rv, err := store.CreateReview(ctx, review.Review{PlaceID: p.ID, UserID: "u1", Rating: 4, Text: "nice"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}

	r := New(store, "@every 5m", logging.New("reconciler-test", "error"))
	if err := r.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	got, err := store.GetPlace(ctx, p.ID)
	if err != nil {
		t.Fatalf("get place: %v", err)
	}
	if !got.HasReview(rv.ID) {
		t.Errorf("review not re-attached: %v", got.ReviewIDs)
	}
}

func TestSweep_DropsForeignReviewLink(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	p1, _ := store.CreatePlace(ctx, place.Place{Title: "Loft"})
	p2, _ := store.CreatePlace(ctx, place.Place{Title: "Cabin"})
	rv, _ := store.CreateReview(ctx, review.Review{PlaceID: p2.ID, UserID: "u1", Rating: 4, Text: "nice"})

	// Corrupt p1 with a link to p2's review.
	p1.ReviewIDs = []string{rv.ID}
	if _, err := store.UpdatePlace(ctx, p1); err != nil {
		t.Fatalf("update place: %v", err)
	}

	r := New(store, "@every 5m", logging.New("reconciler-test", "error"))
	if err := r.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	got1, _ := store.GetPlace(ctx, p1.ID)
	if len(got1.ReviewIDs) != 0 {
		t.Errorf("foreign link survived on %s: %v", p1.ID, got1.ReviewIDs)
	}
	got2, _ := store.GetPlace(ctx, p2.ID)
	if !got2.HasReview(rv.ID) {
		t.Errorf("review not attached to its own place: %v", got2.ReviewIDs)
	}
}
