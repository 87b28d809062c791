package server

import (
	"context"
	"net/http"
	"time"

	"trainerbook/internal/auth"
	"trainerbook/internal/booking"
	"trainerbook/internal/config"
	"trainerbook/internal/email"
	"trainerbook/internal/lessons"
	"trainerbook/internal/schedule"
	"trainerbook/internal/trainer"
	"trainerbook/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	rateLimiter := NewRateLimiter(10, 20, 10*time.Minute)
	router.Use(RateLimitMiddleware(rateLimiter))

	userRepo := user.NewRepository(db)
	trainerRepo := trainer.NewRepository(db)
	scheduleRepo := schedule.NewRepository(db)
	lessonsRepo := lessons.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	scheduleService := schedule.NewService(scheduleRepo, trainerRepo)
	bookingService := booking.NewService(bookingRepo, userRepo, trainerRepo, emailService)

	userHandler := user.NewHandler(userService)
	trainerHandler := trainer.NewHandler(trainerRepo)
	scheduleHandler := schedule.NewHandler(scheduleService, trainerRepo)
	lessonsHandler := lessons.NewHandler(lessonsRepo)
	bookingHandler := booking.NewHandler(bookingService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/trainers", trainerHandler.ListTrainers)
		protected.GET("/trainers/:trainerID", trainerHandler.GetTrainer)
		protected.GET("/trainers/:trainerID/slots", scheduleHandler.ListSlots)
		protected.POST("/slots/:slotID/book", bookingHandler.BookSlot)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.GET("/packages", lessonsHandler.ListMyPackages)
	}

	trainerOnly := router.Group("/trainers")
	trainerOnly.Use(authMiddleware, auth.RequireRole(auth.RoleTrainer))
	{
		trainerOnly.POST("/:trainerID/availability", scheduleHandler.GenerateAvailability)
		trainerOnly.PUT("/:trainerID/slots", scheduleHandler.SetSlotStatus)
		trainerOnly.DELETE("/:trainerID/slots", scheduleHandler.DeleteSlot)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/trainers", trainerHandler.CreateTrainer)
		admin.POST("/payments/confirm", lessonsHandler.ConfirmPayment)
		admin.GET("/trainers/:trainerID/bookings", bookingHandler.ListBookingsByTrainer)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
