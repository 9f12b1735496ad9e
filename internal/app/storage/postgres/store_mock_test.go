package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/staynest/listing_layer/internal/app/domain/user"
	"github.com/staynest/listing_layer/internal/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCreateUser_GeneratesID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := store.CreateUser(context.Background(), user.User{Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == "" {
		t.Error("expected id to be generated")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Error("expected created_at and updated_at to be set together")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUser_UniqueViolationIsConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateUser(context.Background(), user.User{Email: "dup@example.com"})
	if !errors.IsConflict(err) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM users").WillReturnError(sql.ErrNoRows)

	_, err := store.GetUser(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "is_admin", "created_at", "updated_at"}).
		AddRow("u1", "Ada", "Lovelace", "ada@example.com", "hash", false, now, now)
	mock.ExpectQuery("FROM users").WithArgs("ada@example.com").WillReturnRows(rows)

	u, err := store.GetUserByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.ID != "u1" || u.Email != "ada@example.com" {
		t.Errorf("unexpected user %+v", u)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM users").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteUser(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}
