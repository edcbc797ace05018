package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/01moynul/taptosell-admin/internal/handlers"
	"github.com/01moynul/taptosell-admin/internal/logging"
	"github.com/01moynul/taptosell-admin/internal/metrics"
	"github.com/01moynul/taptosell-admin/internal/middleware"
)

// Options carries what the router needs besides the handlers.
type Options struct {
	Logger     zerolog.Logger
	CORSOrigin string
	Tokens     middleware.TokenValidator

	// Metrics and Gatherer are optional; /metrics is only mounted when both are set.
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer

	// UploadDir is served at /uploads when images are stored locally.
	UploadDir string
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()

	// --- Global middleware ---
	// CORS must run before anything can abort the request.
	router.Use(middleware.CORSMiddleware(opts.CORSOrigin))
	router.Use(logging.GinMiddleware(opts.Logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	router.Use(gin.Recovery())

	if opts.Metrics != nil && opts.Gatherer != nil {
		router.GET("/metrics", metrics.Handler(opts.Gatherer))
	}
	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}

	api := router.Group("/api")
	{
		// --- Ping Route (Public) ---
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		api.POST("/auth/login", h.Login)

		// --- Read Routes (Public) ---
		api.GET("/users/all", h.GetAllUsers)
		api.GET("/users/:slug", h.GetUser)
		api.GET("/brands/all", h.GetAllBrands)
		api.GET("/brands/:slug", h.GetBrand)
		api.GET("/categories/all", h.GetAllCategories)
		api.GET("/categories/:slug", h.GetCategory)
		api.GET("/teams/all", h.GetAllTeamMembers)
		api.GET("/teams/:slug", h.GetTeamMember)

		api.GET("/dashboard/stats", h.GetDashboardStats)
		api.GET("/notifications", h.GetNotifications)

		// --- Protected Routes (Login Required) ---
		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware(opts.Tokens))
		{
			admin.POST("/users", h.CreateUser)
			admin.PUT("/users/:slug", h.UpdateUser)
			admin.DELETE("/users/:slug", h.DeleteUser)

			admin.POST("/brands", h.CreateBrand)
			admin.PUT("/brands/:slug", h.UpdateBrand)
			admin.DELETE("/brands/:slug", h.DeleteBrand)

			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:slug", h.UpdateCategory)
			admin.DELETE("/categories/:slug", h.DeleteCategory)

			admin.POST("/teams", h.CreateTeamMember)
			admin.PUT("/teams/:slug", h.UpdateTeamMember)
			admin.DELETE("/teams/:slug", h.DeleteTeamMember)

			admin.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)
		}
	}

	return router
}
