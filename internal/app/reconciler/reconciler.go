// Package reconciler runs a periodic sweep over the association lists,
// repairing drift between places and reviews: dangling ids are removed
// and missing back-references restored.
package reconciler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/staynest/listing_layer/internal/app/storage"
	"github.com/staynest/listing_layer/internal/errors"
	"github.com/staynest/listing_layer/internal/logging"
)

// Reconciler owns the sweep schedule.
type Reconciler struct {
	store    storage.Store
	log      *logging.Logger
	schedule string
	cron     *cron.Cron
}

// New creates a reconciler with a cron schedule such as "@every 5m".
func New(store storage.Store, schedule string, log *logging.Logger) *Reconciler {
	if log == nil {
		log = logging.NewDefault("reconciler")
	}
	return &Reconciler{store: store, log: log, schedule: schedule}
}

// Start registers the sweep on the schedule and begins running it.
func (r *Reconciler) Start() error {
	r.cron = cron.New()
	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.Sweep(context.Background()); err != nil {
			r.log.WithError(err).Error("association sweep failed")
		}
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.log.WithField("schedule", r.schedule).Info("reconciler started")
	return nil
}

// Stop halts the schedule, waiting for a running sweep to finish.
func (r *Reconciler) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// Sweep walks every place once. It drops association ids that no longer
// resolve and re-attaches reviews whose place forgot them.
func (r *Reconciler) Sweep(ctx context.Context) error {
	places, err := r.store.ListPlaces(ctx)
	if err != nil {
		return err
	}

	repaired := 0
	for _, p := range places {
		changed := false

		amenities := p.AmenityIDs[:0:0]
		for _, id := range p.AmenityIDs {
			if _, err := r.store.GetAmenity(ctx, id); err != nil {
				if errors.IsNotFound(err) {
					changed = true
					continue
				}
				return err
			}
			amenities = append(amenities, id)
		}

		reviews := p.ReviewIDs[:0:0]
		for _, id := range p.ReviewIDs {
			rv, err := r.store.GetReview(ctx, id)
			if err != nil {
				if errors.IsNotFound(err) {
					changed = true
					continue
				}
				return err
			}
			if rv.PlaceID != p.ID {
				changed = true
				continue
			}
			reviews = append(reviews, id)
		}

		if changed {
			p.AmenityIDs = amenities
			p.ReviewIDs = reviews
			if _, err := r.store.UpdatePlace(ctx, p); err != nil && !errors.IsNotFound(err) {
				return err
			}
			repaired++
		}
	}

	// Restore reviews the owning place lost track of.
	allReviews, err := r.store.ListReviews(ctx)
	if err != nil {
		return err
	}
	for _, rv := range allReviews {
		p, err := r.store.GetPlace(ctx, rv.PlaceID)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return err
		}
		if p.HasReview(rv.ID) {
			continue
		}
		p.ReviewIDs = append(p.ReviewIDs, rv.ID)
		if _, err := r.store.UpdatePlace(ctx, p); err != nil && !errors.IsNotFound(err) {
			return err
		}
		repaired++
	}

	if repaired > 0 {
		r.log.WithField("repaired", repaired).Info("association sweep repaired drift")
	}
	return nil
}
