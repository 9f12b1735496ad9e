// Package postgres provides the durable storage backend. It mirrors the
// in-memory backend's external behavior exactly; only durability and
// performance characteristics differ.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/staynest/listing_layer/internal/app/domain/amenity"
	"github.com/staynest/listing_layer/internal/app/domain/place"
	"github.com/staynest/listing_layer/internal/app/domain/review"
	"github.com/staynest/listing_layer/internal/app/domain/user"
	"github.com/staynest/listing_layer/internal/app/storage"
	"github.com/staynest/listing_layer/internal/errors"
)

//go:embed schema.sql
var schemaSQL string

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema applies the idempotent bootstrap DDL.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == "23505"
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, errors.NewConflictError("user", u.ID)
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	existing, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return user.User{}, err
	}

	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, password_hash = $5, is_admin = $6, updated_at = $7
		WHERE id = $1
	`, u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsAdmin, u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.User{}, errors.NewNotFoundError("user", u.ID)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, is_admin, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id), id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, is_admin, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email), "")
}

func (s *Store) scanUser(row *sql.Row, id string) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return user.User{}, errors.NewNotFoundError("user", id)
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, is_admin, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.NewNotFoundError("user", id)
	}
	return nil
}

// --- AmenityStore -----------------------------------------------------------

func (s *Store) CreateAmenity(ctx context.Context, a amenity.Amenity) (amenity.Amenity, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO amenities (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Name, a.Description, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return amenity.Amenity{}, errors.NewConflictError("amenity", a.ID)
		}
		return amenity.Amenity{}, err
	}
	return a, nil
}

func (s *Store) UpdateAmenity(ctx context.Context, a amenity.Amenity) (amenity.Amenity, error) {
	existing, err := s.GetAmenity(ctx, a.ID)
	if err != nil {
		return amenity.Amenity{}, err
	}

	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE amenities
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, a.ID, a.Name, a.Description, a.UpdatedAt)
	if err != nil {
		return amenity.Amenity{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return amenity.Amenity{}, errors.NewNotFoundError("amenity", a.ID)
	}
	return a, nil
}

func (s *Store) GetAmenity(ctx context.Context, id string) (amenity.Amenity, error) {
	var a amenity.Amenity
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM amenities
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return amenity.Amenity{}, errors.NewNotFoundError("amenity", id)
		}
		return amenity.Amenity{}, err
	}
	return a, nil
}

func (s *Store) ListAmenities(ctx context.Context) ([]amenity.Amenity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM amenities
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []amenity.Amenity
	for rows.Next() {
		var a amenity.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Store) DeleteAmenity(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM amenities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.NewNotFoundError("amenity", id)
	}
	return nil
}

// --- PlaceStore -------------------------------------------------------------

func (s *Store) CreatePlace(ctx context.Context, p place.Place) (place.Place, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return place.Place{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO places (id, title, description, price, latitude, longitude, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Description, p.Price, p.Latitude, p.Longitude, p.OwnerID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return place.Place{}, errors.NewConflictError("place", p.ID)
		}
		return place.Place{}, err
	}

	if err := writeLinks(ctx, tx, "place_amenities", "amenity_id", p.ID, p.AmenityIDs); err != nil {
		return place.Place{}, err
	}
	if err := writeLinks(ctx, tx, "place_reviews", "review_id", p.ID, p.ReviewIDs); err != nil {
		return place.Place{}, err
	}

	if err := tx.Commit(); err != nil {
		return place.Place{}, err
	}
	return p, nil
}

func (s *Store) UpdatePlace(ctx context.Context, p place.Place) (place.Place, error) {
	existing, err := s.GetPlace(ctx, p.ID)
	if err != nil {
		return place.Place{}, err
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return place.Place{}, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE places
		SET title = $2, description = $3, price = $4, latitude = $5, longitude = $6, owner_id = $7, updated_at = $8
		WHERE id = $1
	`, p.ID, p.Title, p.Description, p.Price, p.Latitude, p.Longitude, p.OwnerID, p.UpdatedAt)
	if err != nil {
		return place.Place{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return place.Place{}, errors.NewNotFoundError("place", p.ID)
	}

	// Association lists are rewritten wholesale inside the transaction so
	// a place and its links never diverge.
	for _, table := range []string{"place_amenities", "place_reviews"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE place_id = $1`, p.ID); err != nil {
			return place.Place{}, err
		}
	}
	if err := writeLinks(ctx, tx, "place_amenities", "amenity_id", p.ID, p.AmenityIDs); err != nil {
		return place.Place{}, err
	}
	if err := writeLinks(ctx, tx, "place_reviews", "review_id", p.ID, p.ReviewIDs); err != nil {
		return place.Place{}, err
	}

	if err := tx.Commit(); err != nil {
		return place.Place{}, err
	}
	return p, nil
}

func (s *Store) GetPlace(ctx context.Context, id string) (place.Place, error) {
	var p place.Place
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, price, latitude, longitude, owner_id, created_at, updated_at
		FROM places
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Latitude, &p.Longitude, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return place.Place{}, errors.NewNotFoundError("place", id)
		}
		return place.Place{}, err
	}

	if p.AmenityIDs, err = s.readLinks(ctx, "place_amenities", "amenity_id", id); err != nil {
		return place.Place{}, err
	}
	if p.ReviewIDs, err = s.readLinks(ctx, "place_reviews", "review_id", id); err != nil {
		return place.Place{}, err
	}
	return p, nil
}

func (s *Store) ListPlaces(ctx context.Context) ([]place.Place, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, price, latitude, longitude, owner_id, created_at, updated_at
		FROM places
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []place.Place
	for rows.Next() {
		var p place.Place
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Latitude, &p.Longitude, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if result[i].AmenityIDs, err = s.readLinks(ctx, "place_amenities", "amenity_id", result[i].ID); err != nil {
			return nil, err
		}
		if result[i].ReviewIDs, err = s.readLinks(ctx, "place_reviews", "review_id", result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) DeletePlace(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.NewNotFoundError("place", id)
	}

	for _, table := range []string{"place_amenities", "place_reviews"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE place_id = $1`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// --- ReviewStore ------------------------------------------------------------

func (s *Store) CreateReview(ctx context.Context, r review.Review) (review.Review, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, place_id, user_id, rating, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.PlaceID, r.UserID, r.Rating, r.Text, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return review.Review{}, errors.NewConflictError("review", r.ID)
		}
		return review.Review{}, err
	}
	return r, nil
}

func (s *Store) UpdateReview(ctx context.Context, r review.Review) (review.Review, error) {
	existing, err := s.GetReview(ctx, r.ID)
	if err != nil {
		return review.Review{}, err
	}

	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE reviews
		SET place_id = $2, user_id = $3, rating = $4, text = $5, updated_at = $6
		WHERE id = $1
	`, r.ID, r.PlaceID, r.UserID, r.Rating, r.Text, r.UpdatedAt)
	if err != nil {
		return review.Review{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return review.Review{}, errors.NewNotFoundError("review", r.ID)
	}
	return r, nil
}

func (s *Store) GetReview(ctx context.Context, id string) (review.Review, error) {
	var r review.Review
	err := s.db.QueryRowContext(ctx, `
		SELECT id, place_id, user_id, rating, text, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`, id).Scan(&r.ID, &r.PlaceID, &r.UserID, &r.Rating, &r.Text, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return review.Review{}, errors.NewNotFoundError("review", id)
		}
		return review.Review{}, err
	}
	return r, nil
}

func (s *Store) ListReviews(ctx context.Context) ([]review.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, place_id, user_id, rating, text, created_at, updated_at
		FROM reviews
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []review.Review
	for rows.Next() {
		var r review.Review
		if err := rows.Scan(&r.ID, &r.PlaceID, &r.UserID, &r.Rating, &r.Text, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return errors.NewNotFoundError("review", id)
	}
	return nil
}

// helpers ---------------------------------------------------------------------

func writeLinks(ctx context.Context, tx *sql.Tx, table, column, placeID string, ids []string) error {
	for i, id := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO `+table+` (place_id, `+column+`, ordinal) VALUES ($1, $2, $3)`,
			placeID, id, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) readLinks(ctx context.Context, table, column, placeID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+` FROM `+table+` WHERE place_id = $1 ORDER BY ordinal`,
		placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
