package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sudalaiyandi2004/cyber-backend/internal/api/handler"
	"github.com/sudalaiyandi2004/cyber-backend/internal/api/middleware"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
)

// Deps carries everything the router needs to register routes.
type Deps struct {
	AuthService ports.AuthService
	PostService ports.PostService
	Mongo       *mongo.Database
	Redis       *redis.Client
	Logger      zerolog.Logger
	// MediaDir, when non-empty, is served statically under /media for the
	// local media store driver.
	MediaDir string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("posting"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	postHandler := handler.NewPostHandler(deps.PostService)
	authGate := middleware.Auth(deps.AuthService)
	roleGate := middleware.RBAC(domain.RoleUser, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/user/posts", postHandler.MyPosts, authGate, roleGate)

	// --- Post routes ---
	e.POST("/posts", postHandler.Create, authGate, roleGate)
	e.GET("/posts", postHandler.List)
	e.PUT("/posts/:id", postHandler.Update, authGate, roleGate)
	e.DELETE("/posts/:id", postHandler.Delete, authGate, roleGate)

	// --- Local media files ---
	if deps.MediaDir != "" {
		e.Static("/media", deps.MediaDir)
	}

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
