package entity

import (
	"database/sql"
	"time"
)

// Account is the persisted user record. An OTP column and its expiry are
// always written as a pair: set together on issuance, cleared together on
// consumption.
type Account struct {
	ID                 uint64
	AccountID          string
	Name               string
	Email              string
	PasswordHash       string
	IsVerified         bool
	VerifyOtp          sql.NullString
	VerifyOtpExpiresAt sql.NullTime
	ResetOtp           sql.NullString
	ResetOtpExpiresAt  sql.NullTime
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
