package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ticketing/internal/handler"
	"ticketing/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TicketHandler  *handler.TicketHandler
	PaymentHandler *handler.PaymentHandler
	ChallanHandler *handler.ChallanHandler
	InspectHandler *handler.InspectHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	JWTSecret      []byte
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Ticket routes. Booking requires a logged-in passenger;
		// inspection is a checker-side endpoint behind the same auth.
		tickets := v1.Group("/tickets")
		tickets.Use(middleware.RequireAuth(deps.JWTSecret))
		{
			tickets.POST("", deps.TicketHandler.BookTicket)
			tickets.GET("", deps.TicketHandler.GetTickets)
			tickets.GET("/:id", deps.TicketHandler.GetTicket)
			tickets.POST("/inspect", deps.InspectHandler.Inspect)
		}

		// Payment routes. The gateway return URL must stay reachable
		// without a session token, so no auth here; the signature check
		// is the gate.
		payments := v1.Group("/payments")
		{
			payments.POST("/verify", deps.PaymentHandler.VerifyPayment)
			payments.GET("/return", deps.PaymentHandler.PaymentReturn)
			payments.GET("/orders/:id", deps.PaymentHandler.GetOrder)
		}

		// Challan routes.
		challans := v1.Group("/challans")
		challans.Use(middleware.RequireAuth(deps.JWTSecret))
		{
			challans.POST("", deps.ChallanHandler.IssueChallan)
			challans.GET("", deps.ChallanHandler.GetChallans)
			challans.GET("/:id", deps.ChallanHandler.GetChallan)
		}
	}

	return router
}
