package controller

import (
	"errors"
	"net/http"

	dto "github.com/authify-io/authify/app/dto/http"
	"github.com/authify-io/authify/app/middleware"
	"github.com/authify-io/authify/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AccountController struct {
	accounts service.AccountService
}

func NewAccountController(accounts service.AccountService) *AccountController {
	return &AccountController{accounts: accounts}
}

func (c *AccountController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "name, email and password are required"})
	}

	summary, err := c.accounts.Register(ctx.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			logrus.WithField("email", req.Email).Warn("Register failed: email already taken")
			return ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: "email already registered"})
		}
		if errors.Is(err, service.ErrInvalidEmail) || errors.Is(err, service.ErrWeakPassword) {
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Register failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{
		"account_id": summary.AccountID,
		"email":      summary.Email,
	}).Info("Account registered")

	return ctx.JSON(http.StatusCreated, summary)
}

func (c *AccountController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "email and password are required"})
	}

	result, err := c.accounts.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("email", req.Email).Warn("Login failed: invalid credentials")
			return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Login failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
	})
}

func (c *AccountController) GetProfile(ctx echo.Context) error {
	email, ok := middleware.IdentityEmail(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	summary, err := c.accounts.GetProfile(ctx.Request().Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "account not found"})
		}
		logrus.WithError(err).WithField("email", email).Error("Get profile failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, summary)
}

func (c *AccountController) SendResetOtp(ctx echo.Context) error {
	var req dto.SendResetOtpRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Email == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "email is required"})
	}

	if err := c.accounts.SendResetOtp(ctx.Request().Context(), req.Email); err != nil {
		return c.otpIssuanceError(ctx, err, req.Email, "Send reset OTP")
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "reset code sent"})
}

func (c *AccountController) ResetPassword(ctx echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Email == "" || req.Otp == "" || req.NewPassword == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "email, otp and new_password are required"})
	}

	if err := c.accounts.ResetPassword(ctx.Request().Context(), req.Email, req.Otp, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "account not found"})
		}
		if errors.Is(err, service.ErrInvalidOtp) {
			logrus.WithField("email", req.Email).Warn("Reset password failed: invalid otp")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid otp"})
		}
		if errors.Is(err, service.ErrOtpExpired) {
			logrus.WithField("email", req.Email).Warn("Reset password failed: otp expired")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "otp has expired"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Reset password failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", req.Email).Info("Password reset")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "password reset successfully"})
}

func (c *AccountController) SendVerifyOtp(ctx echo.Context) error {
	email, ok := middleware.IdentityEmail(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	if err := c.accounts.SendVerifyOtp(ctx.Request().Context(), email); err != nil {
		return c.otpIssuanceError(ctx, err, email, "Send verification OTP")
	}

	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "verification code sent"})
}

func (c *AccountController) VerifyAccount(ctx echo.Context) error {
	email, ok := middleware.IdentityEmail(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	var req dto.VerifyAccountRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Otp == "" {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "otp is required"})
	}

	if err := c.accounts.VerifyAccount(ctx.Request().Context(), email, req.Otp); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "account not found"})
		}
		if errors.Is(err, service.ErrInvalidOtp) {
			logrus.WithField("email", email).Warn("Verify account failed: invalid otp")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid otp"})
		}
		if errors.Is(err, service.ErrOtpExpired) {
			logrus.WithField("email", email).Warn("Verify account failed: otp expired")
			return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "otp has expired"})
		}
		logrus.WithError(err).WithField("email", email).Error("Verify account failed")
		return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithField("email", email).Info("Account verified")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "account verified successfully"})
}

func (c *AccountController) IsAuthenticated(ctx echo.Context) error {
	email, ok := middleware.IdentityEmail(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}

	return ctx.JSON(http.StatusOK, dto.IsAuthenticatedResponse{
		Authenticated: true,
		Email:         email,
	})
}

// Logout is stateless: tokens are self-contained and there is no revocation
// list, so the client simply discards its token.
func (c *AccountController) Logout(ctx echo.Context) error {
	if email, ok := middleware.IdentityEmail(ctx); ok {
		logrus.WithField("email", email).Info("Logout")
	}
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

func (c *AccountController) otpIssuanceError(ctx echo.Context, err error, email, op string) error {
	if errors.Is(err, service.ErrAccountNotFound) {
		return ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "account not found"})
	}
	if errors.Is(err, service.ErrNotificationFailed) {
		logrus.WithError(err).WithField("email", email).Errorf("%s failed: notification failure", op)
		return ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "unable to send email"})
	}
	logrus.WithError(err).WithField("email", email).Errorf("%s failed", op)
	return ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}
