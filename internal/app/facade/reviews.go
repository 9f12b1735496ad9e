package facade

import (
	"context"
	"strings"

	"github.com/staynest/listing_layer/internal/app/domain/review"
	"github.com/staynest/listing_layer/internal/errors"
)

// CreateReviewInput carries the fields accepted when reviewing a place.
type CreateReviewInput struct {
	PlaceID string `json:"place_id"`
	UserID  string `json:"user_id"`
	Rating  int    `json:"rating"`
	Text    string `json:"text"`
}

// UpdateReviewInput carries the fields a review update may change. The
// author and the place are fixed at creation.
type UpdateReviewInput struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

// CreateReview validates the author and the place, enforces the
// one-review-per-user rule and the no-self-review rule, then creates the
// review and attaches it to the place as one unit. If the attach fails
// the review record is removed again.
func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (review.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return review.Review{}, err
	}
	if err := validateReviewText(in.Text); err != nil {
		return review.Review{}, err
	}
	if in.UserID == "" {
		return review.Review{}, errors.RequiredError("user_id")
	}
	if in.PlaceID == "" {
		return review.Review{}, errors.RequiredError("place_id")
	}

	if _, err := s.store.GetUser(ctx, in.UserID); err != nil {
		return review.Review{}, err
	}

	unlock := s.locks.lock("place:" + in.PlaceID)
	defer unlock()

	p, err := s.store.GetPlace(ctx, in.PlaceID)
	if err != nil {
		return review.Review{}, err
	}
	if p.OwnerID == in.UserID {
		return review.Review{}, errors.NewValidationError("user_id", "cannot review own place")
	}

	existing, err := s.relations.ResolveReviews(ctx, p)
	if err != nil {
		return review.Review{}, err
	}
	for _, r := range existing {
		if r.UserID == in.UserID {
			return review.Review{}, errors.NewValidationError("user_id", "already reviewed this place")
		}
	}

	created, err := s.store.CreateReview(ctx, review.Review{
		PlaceID: in.PlaceID,
		UserID:  in.UserID,
		Rating:  in.Rating,
		Text:    in.Text,
	})
	if err != nil {
		return review.Review{}, err
	}

	if _, err := s.relations.AttachReview(ctx, in.PlaceID, created.ID); err != nil {
		// Undo the orphaned record so the failed call leaves no trace.
		if delErr := s.store.DeleteReview(ctx, created.ID); delErr != nil {
			s.log.WithContext(ctx).WithError(delErr).WithField("review_id", created.ID).
				Error("failed to undo review after attach failure")
		}
		return review.Review{}, err
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"review_id": created.ID,
		"place_id":  created.PlaceID,
	}).Info("review created")
	return created, nil
}

// GetReview fetches one review by id.
func (s *Service) GetReview(ctx context.Context, id string) (review.Review, error) {
	return s.store.GetReview(ctx, id)
}

// ListReviews returns all reviews.
func (s *Service) ListReviews(ctx context.Context) ([]review.Review, error) {
	return s.store.ListReviews(ctx)
}

// ListReviewsForPlace returns the reviews attached to a place in attach
// order, skipping any dangling ids.
func (s *Service) ListReviewsForPlace(ctx context.Context, placeID string) ([]review.Review, error) {
	p, err := s.store.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return s.relations.ResolveReviews(ctx, p)
}

// UpdateReview applies a partial update to the rating or text.
func (s *Service) UpdateReview(ctx context.Context, id string, in UpdateReviewInput) (review.Review, error) {
	unlock := s.locks.lock("review:" + id)
	defer unlock()

	current, err := s.store.GetReview(ctx, id)
	if err != nil {
		return review.Review{}, err
	}

	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return review.Review{}, err
		}
		current.Rating = *in.Rating
	}
	if in.Text != nil {
		if err := validateReviewText(*in.Text); err != nil {
			return review.Review{}, err
		}
		current.Text = *in.Text
	}

	return s.store.UpdateReview(ctx, current)
}

// DeleteReview detaches the review from its place and removes the
// record as one unit.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	r, err := s.store.GetReview(ctx, id)
	if err != nil {
		return err
	}

	unlock := s.locks.lock("place:" + r.PlaceID)
	if _, err := s.relations.DetachReview(ctx, r.PlaceID, id); err != nil && !errors.IsNotFound(err) {
		unlock()
		return err
	}
	unlock()

	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).WithField("review_id", id).Info("review deleted")
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.NewValidationError("rating", "must be between 1 and 5")
	}
	return nil
}

func validateReviewText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.RequiredError("text")
	}
	return nil
}
