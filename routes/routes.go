package routes

import (
	"net/http"
	"time"

	"repairright/config"
	"repairright/handlers"
	"repairright/middleware"
	"repairright/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func corsConfig(cfg config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.Origins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}

// RegisterCatalogRoutes registers the service listing endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/services", hb.ListServicesHandler)
	r.GET("/services/:id", hb.GetServiceHandler)

	protected := r.Group("")
	protected.Use(middleware.BearerAuth(hb.Verifier))
	{
		protected.POST("/services", hb.CreateServiceHandler)
		protected.PUT("/services/:id", hb.UpdateServiceHandler)
		protected.DELETE("/services/:id", hb.DeleteServiceHandler)
		protected.GET("/my-services", hb.MyServicesHandler)
	}
}

// RegisterBookingRoutes registers the booking endpoints. All of them require a caller.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	protected := r.Group("")
	protected.Use(middleware.BearerAuth(hb.Verifier))
	{
		protected.POST("/bookings", hb.CreateBookingHandler)
		protected.GET("/bookings/check/:serviceId/:userEmail", hb.CheckBookingHandler)
		protected.GET("/bookings/:id", hb.GetBookingHandler)
		protected.GET("/bookings/:id/events", hb.BookingEventsHandler)
		protected.PATCH("/bookings/:id/status", hb.UpdateStatusHandler)
		protected.GET("/my-bookings", hb.MyBookingsHandler)
		protected.GET("/service-to-do", hb.ServiceToDoHandler)
	}
}

// RegisterHealthRoutes registers the welcome and health endpoints.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", hb.WelcomeHandler)
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cfg config.Config) {
	r.Use(
		utils.ErrorHandler(),
		middleware.RequestID(),
		middleware.AccessLog(),
		cors.New(corsConfig(cfg)),
		middleware.RateLimit(cfg.MaxRequestsPerMin),
		middleware.Timeout(cfg.RequestTimeout),
	)

	RegisterHealthRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

// NewRouter returns a gin engine with every route registered.
func NewRouter(hb *handlers.HandlerBundle, cfg config.Config) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, hb, cfg)
	return r
}
