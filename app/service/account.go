package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/authify-io/authify/app/dto"
	"github.com/authify-io/authify/app/entity"
	"github.com/authify-io/authify/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidOtp         = errors.New("invalid otp")
	ErrOtpExpired         = errors.New("otp has expired")
	ErrNotificationFailed = errors.New("unable to send email")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
)

type accountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, account *entity.Account) error
}

type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*dto.AccountSummary, error)
	Login(ctx context.Context, email, password string) (*dto.LoginResult, error)
	GetProfile(ctx context.Context, email string) (*dto.AccountSummary, error)
	SendResetOtp(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	SendVerifyOtp(ctx context.Context, email string) error
	VerifyAccount(ctx context.Context, email, otp string) error
}

type accountService struct {
	repo     accountRepository
	tokens   *TokenService
	notifier Notifier
	cfg      *config.Config
}

func NewAccountService(repo accountRepository, tokens *TokenService, notifier Notifier, cfg *config.Config) AccountService {
	return &accountService{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (s *accountService) Register(ctx context.Context, name, email, password string) (*dto.AccountSummary, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	if err := s.cfg.PasswordPolicy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &entity.Account{
		AccountID:    uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return dto.NewAccountSummary(account), nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresIn, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

func (s *accountService) GetProfile(ctx context.Context, email string) (*dto.AccountSummary, error) {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountSummary(account), nil
}

// SendResetOtp persists the new code before attempting delivery; a failed
// send leaves the code valid, so re-requesting overwrites and resends it.
func (s *accountService) SendResetOtp(ctx context.Context, email string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	otp, err := generateOtp()
	if err != nil {
		return err
	}

	account.ResetOtp = sql.NullString{String: otp, Valid: true}
	account.ResetOtpExpiresAt = sql.NullTime{
		Time:  time.Now().Add(s.cfg.ResetOtpTTL),
		Valid: true,
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	if err := s.notifier.SendResetOtp(ctx, account.Email, account.Name, otp); err != nil {
		logrus.WithError(err).WithField("email", account.Email).Error("Reset OTP delivery failed")
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	return nil
}

func (s *accountService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !account.ResetOtp.Valid || account.ResetOtp.String != otp {
		return ErrInvalidOtp
	}

	// The expiry window is enforced here as well as on the verify path.
	if !account.ResetOtpExpiresAt.Valid || account.ResetOtpExpiresAt.Time.Before(time.Now()) {
		return ErrOtpExpired
	}

	if err := s.cfg.PasswordPolicy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account.PasswordHash = string(hashedPassword)
	account.ResetOtp = sql.NullString{Valid: false}
	account.ResetOtpExpiresAt = sql.NullTime{Valid: false}

	return s.repo.Update(ctx, account)
}

func (s *accountService) SendVerifyOtp(ctx context.Context, email string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if account.IsVerified {
		return nil
	}

	otp, err := generateOtp()
	if err != nil {
		return err
	}

	account.VerifyOtp = sql.NullString{String: otp, Valid: true}
	account.VerifyOtpExpiresAt = sql.NullTime{
		Time:  time.Now().Add(s.cfg.VerifyOtpTTL),
		Valid: true,
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	if err := s.notifier.SendVerifyOtp(ctx, account.Email, account.Name, otp); err != nil {
		logrus.WithError(err).WithField("email", account.Email).Error("Verification OTP delivery failed")
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	return nil
}

func (s *accountService) VerifyAccount(ctx context.Context, email, otp string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !account.VerifyOtp.Valid || account.VerifyOtp.String != otp {
		return ErrInvalidOtp
	}

	if !account.VerifyOtpExpiresAt.Valid || account.VerifyOtpExpiresAt.Time.Before(time.Now()) {
		return ErrOtpExpired
	}

	account.IsVerified = true
	account.VerifyOtp = sql.NullString{Valid: false}
	account.VerifyOtpExpiresAt = sql.NullTime{Valid: false}

	return s.repo.Update(ctx, account)
}

func (s *accountService) findByEmail(ctx context.Context, email string) (*entity.Account, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
