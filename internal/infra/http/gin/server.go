package ginserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Profile(c *gin.Context)
}

type ListingHTTP interface {
	Search(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddImage(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Cancel(c *gin.Context)
	Pay(c *gin.Context)
	Mine(c *gin.Context)
	All(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Listing        ListingHTTP
	Booking        BookingHTTP
	AuthMiddleware gin.HandlerFunc
	Metrics        http.Handler
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	router := NewRouter(cfg, obsMW, health, h)
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "staybook.http"),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	router.Use(requestTimeout(cfg.RequestTimeout))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("/api/v1")
	if h.AuthMiddleware != nil {
		api.Use(h.AuthMiddleware)
	}
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.GET("/auth/profile", requireAuth, h.Auth.Profile)
	}
	if h.Listing != nil {
		listings := api.Group("/listings")
		listings.GET("", h.Listing.Search)
		listings.GET("/:id", h.Listing.Get)
		listings.POST("", requireAuth, h.Listing.Create)
		listings.PUT("/:id", requireAuth, h.Listing.Update)
		listings.DELETE("/:id", requireAuth, h.Listing.Delete)
		listings.POST("/:id/images", requireAuth, h.Listing.AddImage)
	}
	if h.Booking != nil {
		bookings := api.Group("/bookings", requireAuth)
		bookings.POST("", h.Booking.Create)
		bookings.GET("", h.Booking.All)
		bookings.GET("/mybookings", h.Booking.Mine)
		bookings.PUT("/:id/status", h.Booking.UpdateStatus)
		bookings.POST("/:id/cancel", h.Booking.Cancel)
		bookings.POST("/:id/pay", h.Booking.Pay)
	}
	return router
}

// requestTimeout bounds every store call made while serving the request.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
