package cmd

import (
	"database/sql"
	"fmt"
	"net"
	"net/http"

	"github.com/authify-io/authify/app/controller"
	"github.com/authify-io/authify/app/middleware"
	"github.com/authify-io/authify/app/repository"
	"github.com/authify-io/authify/app/service"
	"github.com/authify-io/authify/config"
	"github.com/authify-io/authify/migrations"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP server for the account and authentication service.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	if err := migrations.Up(db); err != nil {
		logrus.WithError(err).Fatal("Failed to apply migrations")
	}

	mailer, err := service.NewOtpMailer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create mailer")
	}

	accountRepo := repository.NewAccountRepository(db)
	tokenService := service.NewTokenService(cfg)
	accountService := service.NewAccountService(accountRepo, tokenService, mailer, cfg)

	startHTTPServer(cfg, accountService, tokenService)
}

func startHTTPServer(cfg *config.Config, accountService service.AccountService, tokenService *service.TokenService) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))

	accountController := controller.NewAccountController(accountService)
	authMiddleware := middleware.NewAuthMiddleware(tokenService, nil)

	e.Use(authMiddleware.Authenticate)

	e.POST("/register", accountController.Register)
	e.POST("/login", accountController.Login)
	e.POST("/send-reset-otp", accountController.SendResetOtp)
	e.POST("/reset-password", accountController.ResetPassword)
	e.POST("/logout", accountController.Logout)

	protected := e.Group("", authMiddleware.RequireIdentity)
	protected.GET("/profile", accountController.GetProfile)
	protected.GET("/is-authenticated", accountController.IsAuthenticated)
	protected.POST("/send-verify-otp", accountController.SendVerifyOtp)
	protected.POST("/verify-account", accountController.VerifyAccount)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return nil
}
