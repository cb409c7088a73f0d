package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/authify-io/authify/app/entity"
	"github.com/authify-io/authify/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	insertAccountQuery  = `(?s)INSERT INTO accounts \(account_id, name, email, password_hash, is_verified,\s+verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,\s+created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?, \?, \?\)`
	findByEmailQuery    = `(?s)SELECT id, account_id, name, email, password_hash, is_verified,\s+verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,\s+created_at, updated_at\s+FROM accounts WHERE email = \?`
	existsByEmailQuery  = `SELECT 1 FROM accounts WHERE email = \?`
	updateAccountQuery  = `(?s)UPDATE accounts SET\s+name = \?,\s+password_hash = \?,\s+is_verified = \?,\s+verify_otp = \?,\s+verify_otp_expires_at = \?,\s+reset_otp = \?,\s+reset_otp_expires_at = \?,\s+updated_at = \?\s+WHERE id = \?`
)

var accountColumns = []string{
	"id",
	"account_id",
	"name",
	"email",
	"password_hash",
	"is_verified",
	"verify_otp",
	"verify_otp_expires_at",
	"reset_otp",
	"reset_otp_expires_at",
	"created_at",
	"updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func TestAccountRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewAccountRepository(db)
	now := time.Now()
	account := &entity.Account{
		AccountID:    "3f6c0c88-f206-4bff-9a5a-6d3e92f1a001",
		Name:         "Test User",
		Email:        "user@example.com",
		PasswordHash: "hash",
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(insertAccountQuery).
		WithArgs(account.AccountID, account.Name, account.Email, account.PasswordHash, false,
			nil, nil, nil, nil, account.CreatedAt, account.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(7, 1))

	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if account.ID != 7 {
		t.Fatalf("expected account ID 7, got %d", account.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewAccountRepository(db)
	now := time.Now()

	mock.ExpectQuery(findByEmailQuery).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(
			1, "3f6c0c88-f206-4bff-9a5a-6d3e92f1a001", "Test User", "user@example.com", "hash", true,
			nil, nil, "483921", now.Add(15*time.Minute), now, now,
		))

	account, err := repo.FindByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if account == nil {
		t.Fatal("expected account, got nil")
	}
	if account.Email != "user@example.com" || !account.IsVerified {
		t.Fatalf("unexpected account: %+v", account)
	}
	if !account.ResetOtp.Valid || account.ResetOtp.String != "483921" {
		t.Fatalf("expected reset otp to be scanned, got %+v", account.ResetOtp)
	}
	if account.VerifyOtp.Valid || account.VerifyOtpExpiresAt.Valid {
		t.Fatalf("expected verify otp pair to be null, got %+v %+v", account.VerifyOtp, account.VerifyOtpExpiresAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewAccountRepository(db)

	mock.ExpectQuery(findByEmailQuery).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows(accountColumns))

	account, err := repo.FindByEmail(context.Background(), "missing@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if account != nil {
		t.Fatalf("expected nil account, got %+v", account)
	}
}

func TestAccountRepository_FindByEmail_QueryError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewAccountRepository(db)

	mock.ExpectQuery(findByEmailQuery).
		WithArgs("user@example.com").
		WillReturnError(errors.New("connection lost"))

	if _, err := repo.FindByEmail(context.Background(), "user@example.com"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAccountRepository_ExistsByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewAccountRepository(db)

	mock.ExpectQuery(existsByEmailQuery).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}

	mock.ExpectQuery(existsByEmailQuery).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsByEmail(context.Background(), "missing@example.com")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false")
	}
}

func TestAccountRepository_Update(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewAccountRepository(db)
	now := time.Now()
	account := &entity.Account{
		ID:           1,
		AccountID:    "3f6c0c88-f206-4bff-9a5a-6d3e92f1a001",
		Name:         "Test User",
		Email:        "user@example.com",
		PasswordHash: "newhash",
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(updateAccountQuery).
		WithArgs(account.Name, account.PasswordHash, true,
			nil, nil, nil, nil, sqlmock.AnyArg(), account.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	before := account.UpdatedAt
	if err := repo.Update(context.Background(), account); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if account.UpdatedAt.Before(before) {
		t.Fatalf("expected updated_at to be restamped")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
