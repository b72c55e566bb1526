package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"
	"backend/internal/services"
	"backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the store and services into handlers. Everything the
// handlers need is injected here; there is no package-level state.
func NewRouter(env intconfig.Env, st store.Store, logger *zap.Logger) *gin.Engine {
	students := services.NewStudentService(st, logger)
	bookings := services.NewBookingService(st, logger)
	status := services.NewStatusService(st)
	docs := services.NewDocsService(st)

	authHandler := h.NewAuthHandler(env, students)
	routeHandler := h.NewRouteHandler(st)
	bookingHandler := h.NewBookingHandler(bookings, students, status, docs)
	systemHandler := h.NewSystemHandler(status, bookings)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     env.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", systemHandler.Health)
		api.GET("/system/status", systemHandler.GetStatus)

		api.POST("/student/auth", authHandler.StudentAuth)
		api.GET("/student/:collegeId/bookings", bookingHandler.StudentHistory)

		api.GET("/bus-routes", routeHandler.ListActive)

		api.POST("/bookings", bookingHandler.Create)
		api.POST("/bookings/:id/cancel", bookingHandler.Cancel)

		admin := api.Group("/admin")
		admin.POST("/login", authHandler.AdminLogin)

		// Everything else behind the admin token. The offline gate does not
		// apply here: admins can inspect and manage while bookings are off.
		guarded := admin.Group("", middleware.AdminAuth([]byte(env.JWTSecret)))
		{
			guarded.GET("/bus-routes", routeHandler.ListAll)
			guarded.POST("/bus-routes", routeHandler.Create)
			guarded.PUT("/bus-routes/:id", routeHandler.Update)
			guarded.DELETE("/bus-routes/:id", routeHandler.Delete)

			guarded.GET("/bookings", bookingHandler.ListAll)
			guarded.GET("/bookings/manifest", bookingHandler.Manifest)

			guarded.POST("/system/status", systemHandler.SetStatus)
			guarded.GET("/stats", systemHandler.Stats)
		}
	}

	return r
}
