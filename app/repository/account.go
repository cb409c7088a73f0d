package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/authify-io/authify/app/entity"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (account_id, name, email, password_hash, is_verified,
		                      verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
		                      created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		account.AccountID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.IsVerified,
		account.VerifyOtp,
		account.VerifyOtpExpiresAt,
		account.ResetOtp,
		account.ResetOtpExpiresAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	account.ID = uint64(id)
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `
		SELECT id, account_id, name, email, password_hash, is_verified,
		       verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at,
		       created_at, updated_at
		FROM accounts WHERE email = ?
	`
	account := &entity.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID,
		&account.AccountID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.IsVerified,
		&account.VerifyOtp,
		&account.VerifyOtpExpiresAt,
		&account.ResetOtp,
		&account.ResetOtpExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT 1 FROM accounts WHERE email = ?`
	var one int
	err := r.db.QueryRowContext(ctx, query, email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *entity.Account) error {
	query := `
		UPDATE accounts SET
			name = ?,
			password_hash = ?,
			is_verified = ?,
			verify_otp = ?,
			verify_otp_expires_at = ?,
			reset_otp = ?,
			reset_otp_expires_at = ?,
			updated_at = ?
		WHERE id = ?
	`
	account.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		account.Name,
		account.PasswordHash,
		account.IsVerified,
		account.VerifyOtp,
		account.VerifyOtpExpiresAt,
		account.ResetOtp,
		account.ResetOtpExpiresAt,
		account.UpdatedAt,
		account.ID,
	)
	return err
}
