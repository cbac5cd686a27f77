package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhaven/canine-care/internal/api/handler"
	"github.com/pawhaven/canine-care/internal/api/middleware"
	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/core/service"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// db and rdb may be nil when the service runs in seed mode; the readiness
// probe reports them as skipped.
func NewRouter(records *service.RecordsService, authService ports.AuthService, db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("caninecare"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(authService)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	authed := e.Group("", middleware.Auth(jwtSecret), middleware.RequireRole(domain.RoleAdministrator, domain.RoleOwner))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.POST("/auth/restore", authHandler.Restore)
	authed.PUT("/auth/password", authHandler.ChangePassword)

	// --- Canine profiles ---
	// The param is named canine_id on every /canines route so the nested
	// family routes can share the segment.
	canineHandler := handler.NewCanineHandler(records)
	authed.GET("/canines", canineHandler.List)
	authed.POST("/canines", canineHandler.Create)
	authed.GET("/canines/:canine_id", canineHandler.Get)
	authed.PUT("/canines/:canine_id", canineHandler.Update)
	authed.DELETE("/canines/:canine_id", canineHandler.Delete)
	authed.POST("/canines/:canine_id/notes", canineHandler.AddNote)

	// --- Dependent record families ---
	handler.NewRecordsHandler(records.Nutrition).Register(authed, "nutrition")
	handler.NewRecordsHandler(records.Training).Register(authed, "training")
	handler.NewRecordsHandler(records.Appointments).Register(authed, "appointments")
	handler.NewRecordsHandler(records.Media).Register(authed, "media")
	handler.NewRecordsHandler(records.Medical).Register(authed, "medical")
	handler.NewRecordsHandler(records.Medications).Register(authed, "medications")
	handler.NewRecordsHandler(records.Visits).Register(authed, "visits")
	handler.NewRecordsHandler(records.Immunizations).Register(authed, "immunizations")
	handler.NewRecordsHandler(records.Allergies).Register(authed, "allergies")

	// --- Shared records ---
	handler.NewSharedHandler(records.Vets).Register(authed, "vets")
	handler.NewSharedHandler(records.Contacts).Register(authed, "contacts")

	return e
}
