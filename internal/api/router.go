package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/taskhub/task-tracker/docs"
	"github.com/taskhub/task-tracker/internal/api/handler"
	"github.com/taskhub/task-tracker/internal/api/middleware"
	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

// RouterDeps carries everything the router needs to register routes.
type RouterDeps struct {
	Users    ports.UserService
	Tasks    ports.TaskService
	Verifier ports.IdentityVerifier
	Revoker  ports.TokenRevoker
	Mongo    *mongo.Database
	Redis    *redis.Client
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echoprometheus.NewMiddleware("task_tracker"))

	// --- Unauthenticated surface ---
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)    // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated surface ---
	userHandler := handler.NewUserHandler(deps.Users)
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	sessionHandler := handler.NewSessionHandler(deps.Revoker)

	v1 := e.Group("/v1", middleware.Guard(deps.Verifier, deps.Users))

	v1.GET("/profile", userHandler.GetProfile)
	v1.PUT("/profile", userHandler.UpdateProfile)
	v1.POST("/logout", sessionHandler.Logout)

	admin := v1.Group("/users", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("", userHandler.List)
	admin.GET("/stats", userHandler.Stats)
	admin.PUT("/:id/role", userHandler.ChangeRole)
	admin.PUT("/:id/status", userHandler.ToggleStatus)
	admin.DELETE("/:id", userHandler.Delete)

	tasks := v1.Group("/tasks")
	tasks.POST("", taskHandler.Create, middleware.RequirePermission(domain.PermCreateTasks))
	tasks.GET("", taskHandler.List)
	tasks.GET("/stats", taskHandler.Stats)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return e
}
