package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lotusroom/enroll-backend/internal/config"
	"github.com/lotusroom/enroll-backend/internal/handler"
	"github.com/lotusroom/enroll-backend/internal/middleware"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/response"
	"github.com/lotusroom/enroll-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Class      *handler.ClassHandler
	Enrollment *handler.EnrollmentHandler
	Payment    *handler.PaymentHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// Every mutating or role-scoped route passes through RequireAuth, and the
// role-scoped groups additionally through RequireRole — there is no route
// that mutates catalog, roles or ledger outside those guards.
func SetupRouter(
	authService *service.AuthService,
	userService *service.UserService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the credential-exchange routes.
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Public Catalog (No Auth, Briefly Cacheable) ────────────────
	public := router.Group("/api/v1/public")
	public.Use(middleware.CacheControl(30))
	{
		public.GET("/classes", handlers.Class.ListApproved)
		public.GET("/classes/popular", handlers.Class.ListPopular)
		public.GET("/classes/:id", handlers.Class.GetClass)
		public.GET("/instructors", handlers.User.ListInstructors)
	}

	// ─── 3. Authenticated, Any Role ────────────────────────────────────
	users := router.Group("/api/v1/users")
	users.Use(middleware.RequireAuth(authService))
	{
		// Self-only role probe; denies on identity mismatch.
		users.GET("/:email/role", handlers.User.GetRole)
	}

	// ─── 4. Student Group ──────────────────────────────────────────────
	student := router.Group("/api/v1/student")
	student.Use(middleware.RequireAuth(authService))
	{
		student.POST("/selections", handlers.Enrollment.SelectClass)
		student.GET("/selections", handlers.Enrollment.ListSelections)
		student.DELETE("/selections/:id", handlers.Enrollment.Withdraw)
		student.GET("/enrollments", handlers.Enrollment.ListEnrolled)
		student.GET("/receipts", handlers.Payment.ListReceipts)
		student.POST("/checkout/intent", handlers.Payment.CreateIntent)
		student.POST("/checkout/confirm", handlers.Payment.Confirm)
	}

	// ─── 5. Instructor Group (Role Guarded) ────────────────────────────
	instructor := router.Group("/api/v1/instructor")
	instructor.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(userService, model.RoleInstructor),
	)
	{
		instructor.POST("/classes", handlers.Class.CreateClass)
		instructor.GET("/classes", handlers.Class.ListOwnClasses)
		instructor.PUT("/classes/:id", handlers.Class.UpdateClass)
	}

	// ─── 6. Admin Group (Role Guarded) ─────────────────────────────────
	admin := router.Group("/api/v1/admin")
	admin.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(userService, model.RoleAdmin),
	)
	{
		admin.GET("/classes", handlers.Class.ListAll)
		admin.PATCH("/classes/:id/approve", handlers.Class.ApproveClass)
		admin.PATCH("/classes/:id/deny", handlers.Class.DenyClass)
		admin.PUT("/classes/:id/feedback", handlers.Class.SetFeedback)

		admin.GET("/users", handlers.User.ListUsers)
		admin.PATCH("/users/:id/role", handlers.User.SetRole)
	}

	// ─── 7. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/classes/:id/seats", handlers.WS.SeatStream)
	}

	return router
}
