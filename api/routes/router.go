// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"denchetravel/internal/analytics"
	"denchetravel/internal/auth"
	"denchetravel/internal/bookings"
	"denchetravel/internal/departures"
	"denchetravel/internal/notifications"
	"denchetravel/internal/payments"
	"denchetravel/internal/policies"
	"denchetravel/internal/shared/config"
	"denchetravel/internal/shared/database"
	"denchetravel/internal/trips"
	"denchetravel/pkg/cache"
	"denchetravel/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	logger   *logger.Logger
	producer *notifications.Producer

	// Services shared across feature wiring
	departureService departures.Service
	policyService    policies.Service
	bookingService   bookings.Service
	bookingRepo      bookings.Repository
	paymentRepo      payments.Repository
	gateway          payments.Gateway
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, producer *notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		logger:   log,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Departures and policies come first: bookings depend on both
		r.setupPolicyRoutes(api)
		r.setupDepartureRoutes(api)
		r.setupTripRoutes(api)

		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "denchetravel-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "denchetravel-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupPolicyRoutes configures refund policy routes
func (r *Router) setupPolicyRoutes(rg *gin.RouterGroup) {
	policyRepo := policies.NewRepository(r.db.GetPostgreSQL())
	r.policyService = policies.NewService(policyRepo)
	policyController := policies.NewController(r.policyService)

	policies.SetupPolicyRoutes(rg, policyController, r.config)
}

// setupDepartureRoutes configures departure scheduling routes
func (r *Router) setupDepartureRoutes(rg *gin.RouterGroup) {
	departureRepo := departures.NewRepository(r.db.GetPostgreSQL())
	r.departureService = departures.NewService(departureRepo)
	departureController := departures.NewController(r.departureService)

	departures.SetupDepartureRoutes(rg, departureController, r.config)
}

// setupTripRoutes configures trip catalog routes
func (r *Router) setupTripRoutes(rg *gin.RouterGroup) {
	tripRepo := trips.NewRepository(r.db.GetPostgreSQL())
	cacheService := cache.NewService(r.db.GetRedisClient())
	tripService := trips.NewService(tripRepo, cacheService)
	tripController := trips.NewController(tripService)

	trips.SetupTripRoutes(rg, tripController, r.config)
}

// setupBookingRoutes configures booking orchestration routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	r.bookingRepo = bookings.NewRepository(r.db.GetPostgreSQL())
	r.paymentRepo = payments.NewRepository(r.db.GetPostgreSQL())
	r.gateway = payments.NewGateway(r.config)

	// A nil producer must stay a nil interface, not a typed nil
	var notifier bookings.Notifier
	if r.producer != nil {
		notifier = r.producer
	}

	r.bookingService = bookings.NewService(
		r.bookingRepo,
		r.departureService,
		&gatewayAdapter{gateway: r.gateway},
		r.policyService,
		&ledgerAdapter{repo: r.paymentRepo},
		notifier,
		r.logger,
	)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

// setupPaymentRoutes configures the webhook settlement route
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	processor := payments.NewProcessor(r.paymentRepo, r.bookingService, r.config, r.logger)
	paymentController := payments.NewController(processor, r.logger)

	payments.SetupPaymentRoutes(rg, paymentController)
}

// setupAnalyticsRoutes configures the admin dashboard routes
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsService := analytics.NewService(r.bookingRepo, r.paymentRepo, r.departureService)
	analyticsController := analytics.NewController(analyticsService)

	analytics.SetupAnalyticsRoutes(rg, analyticsController, r.config)
}

// gatewayAdapter narrows the payments gateway to the booking orchestrator's
// local contract
type gatewayAdapter struct {
	gateway payments.Gateway
}

func (a *gatewayAdapter) CreateCheckoutSession(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*bookings.CheckoutSession, error) {
	session, err := a.gateway.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AmountCents: amountCents,
		Currency:    currency,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}
	return &bookings.CheckoutSession{
		ID:              session.ID,
		PaymentIntentID: session.PaymentIntentID,
		URL:             session.URL,
	}, nil
}

func (a *gatewayAdapter) CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64) (string, error) {
	refund, err := a.gateway.CreateRefund(ctx, paymentIntentID, amountCents)
	if err != nil {
		return "", err
	}
	return refund.ID, nil
}

// ledgerAdapter narrows the payment ledger to the booking orchestrator's
// refund source: succeeded charges only, refunds excluded
type ledgerAdapter struct {
	repo payments.Repository
}

func (a *ledgerAdapter) CapturedPayments(ctx context.Context, bookingID uuid.UUID) ([]bookings.CapturedPayment, error) {
	entries, err := a.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	var captured []bookings.CapturedPayment
	for _, entry := range entries {
		if entry.Kind == payments.KindRefund || entry.Status != "succeeded" {
			continue
		}
		captured = append(captured, bookings.CapturedPayment{
			PaymentIntentID: entry.PaymentIntentID,
			AmountCents:     entry.AmountCents,
		})
	}
	return captured, nil
}
