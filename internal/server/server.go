package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/api"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/router"
	"github.com/pageza/recipebook/backend/internal/service"
)

const siteName = "Recipebook"

// Deps are the long-lived resources the server is built from. Redis and
// Storage may be nil; rate limiting and export uploads are then disabled,
// and password reset codes cannot be issued.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Storage service.ObjectStore
	Mailer  service.EmailSender
	Log     *logger.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// New wires services and handlers and returns a server ready to Start.
func New(deps Deps) *Server {
	cfg := deps.Config
	log := deps.Log
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authService := service.NewAuthService(deps.DB, cfg, log)
	recipeService := service.NewRecipeService(deps.DB, log)
	profileService := service.NewProfileService(deps.DB, log)
	tagService := service.NewTagService(deps.DB, log)
	ingredientService := service.NewIngredientService(deps.DB, log)
	exportService := service.NewExportService(deps.Storage, log)

	mailer := deps.Mailer
	if mailer == nil {
		mailer = service.NewEmailService(cfg, log)
	}
	var otpStore service.OTPStore = unavailableOTPStore{}
	if deps.Redis != nil {
		otpStore = service.NewRedisOTPStore(deps.Redis)
	}
	resetService := service.NewPasswordResetService(authService, otpStore, mailer, cfg.OTPTTL, siteName, log)

	handlers := router.Handlers{
		Auth:       api.NewAuthHandler(authService, resetService),
		Profile:    api.NewProfileHandler(profileService, authService, recipeService),
		Recipe:     api.NewRecipeHandler(recipeService, exportService),
		Tag:        api.NewTagHandler(tagService),
		Ingredient: api.NewIngredientHandler(ingredientService),
		Health:     api.NewHealthHandler(deps.DB, deps.Redis),
	}
	engine := router.SetupRouter(handlers, router.Options{
		AuthService:  authService,
		WriteLimiter: middleware.NewWriteRateLimiter(deps.Redis, cfg.RateLimitWindow, cfg.RateLimitWrites, log),
		CORSOrigins:  cfg.CORSOrigins,
		Log:          log,
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("Starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

type unavailableOTPStore struct{}

var errOTPUnavailable = errors.New("password reset is unavailable: redis is not configured")

func (unavailableOTPStore) Save(context.Context, string, string, time.Duration) (bool, error) {
	return false, errOTPUnavailable
}

func (unavailableOTPStore) Consume(context.Context, string, string) error {
	return errOTPUnavailable
}
