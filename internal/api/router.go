package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/securevote/voting-wizard/docs"
	"github.com/securevote/voting-wizard/internal/api/handler"
	"github.com/securevote/voting-wizard/internal/api/middleware"
	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

// RateLimit bounds login attempts per client IP.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Deps is everything the router needs to serve requests.
type Deps struct {
	Auth      ports.AuthService
	Wizard    ports.WizardService
	Languages ports.LanguageService
	Audit     ports.AuditService
	// Pingers are checked by the readiness probe, keyed by dependency name.
	Pingers   map[string]handler.Pinger
	JWTSecret string
	RateLimit RateLimit
	Log       zerolog.Logger
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "voting_http",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	sessionHandler := handler.NewSessionHandler(d.Wizard)
	voterHandler := handler.NewVoterHandler(d.Wizard)
	biometricHandler := handler.NewBiometricHandler(d.Wizard)
	votingHandler := handler.NewVotingHandler(d.Wizard)
	languageHandler := handler.NewLanguageHandler(d.Languages)
	auditHandler := handler.NewAuditHandler(d.Audit)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Pingers)

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Public routes ---
	v1.POST("/auth/login", authHandler.Login, loginLimiter(d.RateLimit))
	v1.GET("/i18n", languageHandler.Strings)
	v1.GET("/voting/candidates", votingHandler.Candidates)

	// --- Authenticated routes ---
	authed := v1.Group("", middleware.Auth(d.JWTSecret))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/session", sessionHandler.State)
	authed.DELETE("/session", sessionHandler.Reset)
	authed.GET("/session/route", sessionHandler.Route)

	authed.POST("/voter/verify", voterHandler.VerifyIdentity)
	authed.POST("/otp/send", voterHandler.SendOTP)
	authed.POST("/otp/verify", voterHandler.VerifyOTP)

	authed.POST("/biometric/permission", biometricHandler.Permission)
	authed.POST("/biometric/face-scan", biometricHandler.FaceScan)
	authed.POST("/biometric/retina-scan", biometricHandler.RetinaScan)
	authed.POST("/biometric/privacy-check", biometricHandler.PrivacyCheck)

	authed.POST("/voting/cast", votingHandler.Cast)
	authed.POST("/voting/confirm", votingHandler.Confirm)
	authed.GET("/voting/receipt", votingHandler.Receipt)
	authed.POST("/voting/finish", votingHandler.Finish)

	authed.GET("/language", languageHandler.Get)
	authed.PUT("/language", languageHandler.Set)

	// --- Admin routes ---
	admin := authed.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/audit", auditHandler.List)

	return e
}

// requestLogger logs every request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(rl RateLimit) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rl.RPS),
		Burst:     rl.Burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "cannot identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})
}
