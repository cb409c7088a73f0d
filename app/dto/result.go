package dto

import "github.com/authify-io/authify/app/entity"

// AccountSummary is the public-safe projection of an account: no password
// hash, no OTP state.
type AccountSummary struct {
	AccountID  string `json:"account_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

func NewAccountSummary(account *entity.Account) *AccountSummary {
	return &AccountSummary{
		AccountID:  account.AccountID,
		Name:       account.Name,
		Email:      account.Email,
		IsVerified: account.IsVerified,
	}
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
}
