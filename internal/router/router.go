package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"apiservices/internal/auth"
	"apiservices/internal/config"
	"apiservices/internal/handler"
	"apiservices/internal/metrics"
)

// ArenaHandlers groups the Snake Arena handlers.
type ArenaHandlers struct {
	Auth        *handler.AuthHandler
	Leaderboard *handler.LeaderboardHandler
	Session     *handler.SessionHandler
	// Seed is registered only when the seed endpoint is enabled.
	Seed *handler.SeedHandler
}

// Setup installs the shared middleware and operational routes.
func Setup(e *echo.Echo, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder, gatherer prometheus.Gatherer) {
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
	}))
	if recorder != nil {
		e.Use(recordRequests(recorder))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if cfg.StaticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  cfg.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api")
			},
		}))
	}
}

// RegisterArena wires the Snake Arena routes under /api.
func RegisterArena(e *echo.Echo, cfg *config.Config, jwtService *auth.JWTService, h ArenaHandlers) {
	api := e.Group("/api")
	if limiter := writeLimiter(cfg.RateLimitRPS); limiter != nil {
		api.Use(limiter)
	}

	api.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.MessageResponse{Message: "Welcome to Snake Arena API"})
	})

	// Public routes
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)

	if cfg.MeMode == config.MeModeToken {
		api.GET("/auth/me", h.Auth.Me, echojwt.WithConfig(echojwt.Config{
			SigningKey:  jwtService.Secret(),
			TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
		}))
	} else {
		api.GET("/auth/me", h.Auth.Me)
	}

	api.GET("/leaderboard", h.Leaderboard.GetLeaderboard)
	api.POST("/leaderboard", h.Leaderboard.SubmitScore)
	api.GET("/leaderboard/users/:username/position", h.Leaderboard.GetUserPosition)

	api.GET("/sessions", h.Session.ListLive)
	api.POST("/sessions", h.Session.Create)
	api.GET("/sessions/users/:username", h.Session.ListByUsername)
	api.GET("/sessions/:id", h.Session.Get)
	api.PUT("/sessions/:id", h.Session.Update)
	api.POST("/sessions/:id/close", h.Session.Close)

	if cfg.EnableSeedEndpoint && h.Seed != nil {
		api.POST("/seed/sample", h.Seed.SeedSample)
	}
}

// RegisterTodos wires the TODO routes under /api/todos.
func RegisterTodos(e *echo.Echo, cfg *config.Config, h *handler.TodoHandler) {
	todos := e.Group("/api/todos")
	if limiter := writeLimiter(cfg.RateLimitRPS); limiter != nil {
		todos.Use(limiter)
	}

	todos.GET("", h.List)
	todos.POST("", h.Create)
	todos.GET("/overdue", h.ListOverdue)
	todos.GET("/resolved", h.ListResolved)
	todos.GET("/pending", h.ListPending)
	todos.GET("/:id", h.Get)
	todos.PUT("/:id", h.Update)
	todos.PATCH("/:id", h.Patch)
	todos.DELETE("/:id", h.Delete)
	todos.POST("/:id/mark_resolved", h.MarkResolved)
	todos.POST("/:id/mark_pending", h.MarkPending)
}

// writeLimiter throttles mutating requests per client IP. It returns nil
// when rps is not positive.
func writeLimiter(rps float64) echo.MiddlewareFunc {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return true
			}
			return false
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(rps),
			Burst: burst,
		}),
	})
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

func recordRequests(recorder metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			recorder.RecordHTTPRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
