package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/auth"
	"servicehub/internal/booking"
	"servicehub/internal/config"
	"servicehub/internal/db"
	"servicehub/internal/dispute"
	"servicehub/internal/job"
	"servicehub/internal/notify"
	"servicehub/internal/promotion"
	"servicehub/internal/quotation"
	"servicehub/internal/subscription"
	"servicehub/internal/wallet"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	stop       chan struct{}
}

func New(database *sqlx.DB, cfg *config.Config, notifier notify.Notifier) *Server {
	stop := make(chan struct{})
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)
	go limiter.Run(stop)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(limiter))

	tx := db.NewTxManager(database)

	walletRepo := wallet.NewRepository(database)
	jobRepo := job.NewRepository(database)
	bookingRepo := booking.NewRepository(database)
	promotionRepo := promotion.NewRepository(database)

	subscriptionService := subscription.NewService(subscription.NewRepository(database), walletRepo, tx)
	bookingService := booking.NewService(bookingRepo, notifier, tx)
	quotationService := quotation.NewService(
		quotation.NewRepository(database),
		jobRepo,
		walletRepo,
		promotionRepo,
		subscriptionService,
		bookingService,
		notifier,
		tx,
		cfg.QuotationCredits,
	)
	disputeService := dispute.NewService(dispute.NewRepository(database), bookingRepo, notifier, tx)

	jobHandler := job.NewHandler(job.NewService(jobRepo))
	quotationHandler := quotation.NewHandler(quotationService)
	bookingHandler := booking.NewHandler(bookingService)
	disputeHandler := dispute.NewHandler(disputeService)
	walletHandler := wallet.NewHandler(walletRepo)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	promotionHandler := promotion.NewHandler(promotionRepo)

	router.GET("/health", Health)
	router.GET("/ready", Ready(database))
	router.GET("/metrics", Metrics())

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/jobs", jobHandler.Post)
		protected.GET("/jobs", jobHandler.ListMine)
		protected.GET("/jobs/:jobID", jobHandler.Get)
		protected.POST("/jobs/:jobID/cancel", jobHandler.Cancel)

		protected.GET("/jobs/:jobID/quotations", quotationHandler.ListForJob)
		protected.POST("/jobs/:jobID/quotations", auth.RequireRole(auth.RoleProvider), quotationHandler.Submit)
		protected.POST("/jobs/:jobID/quotations/:quotationID/accept", quotationHandler.Accept)
		protected.POST("/jobs/:jobID/quotations/:quotationID/reject", quotationHandler.Reject)
		protected.POST("/quotations/:quotationID/read", quotationHandler.MarkRead)

		protected.GET("/bookings", bookingHandler.ListMine)
		protected.GET("/bookings/:bookingID", bookingHandler.Get)
		protected.POST("/bookings/:bookingID/request-start", bookingHandler.RequestStart())
		protected.POST("/bookings/:bookingID/request-finish", bookingHandler.RequestFinish())
		protected.POST("/bookings/:bookingID/accept-start", bookingHandler.AcceptStart())
		protected.POST("/bookings/:bookingID/deny-start", bookingHandler.DenyStart())
		protected.POST("/bookings/:bookingID/accept-finish", bookingHandler.AcceptFinish())
		protected.POST("/bookings/:bookingID/deny-finish", bookingHandler.DenyFinish())
		protected.POST("/bookings/:bookingID/review", bookingHandler.Review)
		protected.POST("/bookings/:bookingID/disputes", disputeHandler.Open)
		protected.GET("/bookings/:bookingID/disputes", disputeHandler.List)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
		protected.POST("/admin/wallets/:userID/topup", auth.RequireRole(auth.RoleAdmin), walletHandler.TopUp)

		protected.GET("/plans", subscriptionHandler.ListPlans)
		protected.GET("/subscription", subscriptionHandler.Current)
		protected.POST("/subscription", subscriptionHandler.Subscribe)

		protected.GET("/promotions", promotionHandler.ListMine)
	}

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		db:     database,
		config: cfg,
		stop:   stop,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
