package facade

import (
	"context"
	"strings"

	"github.com/staynest/listing_layer/internal/app/domain/user"
	"github.com/staynest/listing_layer/internal/errors"
)

// CreateUserInput carries the fields accepted when registering a user.
type CreateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

// UpdateUserInput carries the fields a user update may change. Nil
// fields are left untouched; unknown fields never reach this struct.
type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

// CreateUser registers a new account. The password is hashed before the
// record is written; the plaintext is never stored.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (user.User, error) {
	if err := validateName("first_name", in.FirstName); err != nil {
		return user.User{}, err
	}
	if err := validateName("last_name", in.LastName); err != nil {
		return user.User{}, err
	}
	if err := validateEmail(in.Email); err != nil {
		return user.User{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return user.User{}, err
	}

	// Registrations for the same email are serialized so two concurrent
	// creates cannot both pass the uniqueness check.
	unlock := s.locks.lock("email:" + in.Email)
	defer unlock()

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return user.User{}, errors.NewValidationError("email", "already registered")
	} else if !errors.IsNotFound(err) {
		return user.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return user.User{}, err
	}

	created, err := s.store.CreateUser(ctx, user.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	})
	if err != nil {
		return user.User{}, err
	}

	s.log.WithContext(ctx).WithField("user_id", created.ID).Info("user created")
	return created, nil
}

// GetUser fetches one user by id.
func (s *Service) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetUserByEmail fetches one user by exact email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.store.GetUserByEmail(ctx, email)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.store.ListUsers(ctx)
}

// UpdateUser applies a partial update. Changing the email re-runs the
// uniqueness check; changing the password re-hashes it.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (user.User, error) {
	unlock := s.locks.lock("user:" + id)
	defer unlock()

	current, err := s.store.GetUser(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if in.FirstName != nil {
		if err := validateName("first_name", *in.FirstName); err != nil {
			return user.User{}, err
		}
		current.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		if err := validateName("last_name", *in.LastName); err != nil {
			return user.User{}, err
		}
		current.LastName = *in.LastName
	}
	if in.Email != nil && *in.Email != current.Email {
		if err := validateEmail(*in.Email); err != nil {
			return user.User{}, err
		}
		if existing, err := s.store.GetUserByEmail(ctx, *in.Email); err == nil && existing.ID != id {
			return user.User{}, errors.NewValidationError("email", "already registered")
		} else if err != nil && !errors.IsNotFound(err) {
			return user.User{}, err
		}
		current.Email = *in.Email
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return user.User{}, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return user.User{}, err
		}
		current.PasswordHash = hash
	}

	return s.store.UpdateUser(ctx, current)
}

// DeleteUser removes the account and everything that depends on it:
// places the user owns, the reviews attached to those places, and the
// user's own reviews on other places.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.store.GetUser(ctx, id); err != nil {
		return err
	}

	places, err := s.store.ListPlaces(ctx)
	if err != nil {
		return err
	}
	for _, p := range places {
		if p.OwnerID == id {
			if err := s.DeletePlace(ctx, p.ID); err != nil && !errors.IsNotFound(err) {
				return err
			}
		}
	}

	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return err
	}
	for _, r := range reviews {
		if r.UserID == id {
			if err := s.DeleteReview(ctx, r.ID); err != nil && !errors.IsNotFound(err) {
				return err
			}
		}
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).WithField("user_id", id).Info("user deleted")
	return nil
}

// Authenticate verifies the credentials and returns the matching user.
// The same unauthorized error covers an unknown email and a wrong
// password, so callers cannot probe which emails are registered.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return user.User{}, errors.Unauthorized("invalid credentials")
		}
		return user.User{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return user.User{}, errors.Unauthorized("invalid credentials")
	}
	return u, nil
}

func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.RequiredError(field)
	}
	if len(value) > 50 {
		return errors.NewValidationError(field, "must be at most 50 characters")
	}
	return nil
}

func validateEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.RequiredError("email")
	}
	if !strings.Contains(value, "@") {
		return errors.NewValidationError("email", "must contain @")
	}
	return nil
}

func validatePassword(value string) error {
	if value == "" {
		return errors.RequiredError("password")
	}
	if len(value) < 6 {
		return errors.NewValidationError("password", "must be at least 6 characters")
	}
	return nil
}
