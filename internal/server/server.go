// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "skillswap/docs" // swagger docs
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/featureflags"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "skillswap-api"
	tokenAudience = "skillswap-client"

	// consumedTicketGrace covers the window in which Fiber re-runs the
	// middleware chain while upgrading a WebSocket handshake; within it a
	// ticket already removed from Redis still authenticates the same user.
	consumedTicketGrace = 15 * time.Second
)

// consumedTicketEntry caches a ticket consumed from Redis so the second pass
// of the upgrade handshake still authenticates.
type consumedTicketEntry struct {
	userID    uint
	consumeAt time.Time
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	userRepo       repository.UserRepository
	skillRepo      repository.SkillRepository
	swapRepo       repository.SwapRepository
	ratingRepo     repository.RatingRepository
	messageRepo    repository.AdminMessageRepository
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	userService    *service.UserService
	skillService   *service.SkillService
	swapService    *service.SwapService
	ratingService  *service.RatingService
	adminService   *service.AdminService

	consumedTickets   map[string]consumedTicketEntry
	consumedTicketsMu sync.Mutex
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	messageRepo := repository.NewAdminMessageRepository(db)

	prom := middleware.InitMetrics("skillswap-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		skillRepo:      skillRepo,
		swapRepo:       swapRepo,
		ratingRepo:     ratingRepo,
		messageRepo:    messageRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),

		consumedTickets: make(map[string]consumedTicketEntry),
	}

	server.userService = service.NewUserService(userRepo)
	server.skillService = service.NewSkillService(skillRepo, userRepo)
	server.swapService = service.NewSwapService(swapRepo, skillRepo, userRepo)
	server.ratingService = service.NewRatingService(ratingRepo, swapRepo, userRepo)
	server.adminService = service.NewAdminService(userRepo, skillRepo, swapRepo, ratingRepo, messageRepo)

	// The hub works without Redis for a single instance; the notifier only
	// matters when Redis fans notifications out across instances.
	server.hub = notifications.NewHub(redisClient)
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "SkillSwap Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Public skill discovery and site-wide announcements
	api.Get("/skills/popular", s.GetPopularSkills)
	api.Get("/messages", s.GetAdminMessages)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/profile", s.GetMyProfile)
	users.Put("/profile", s.UpdateMyProfile)
	users.Put("/me/visibility", s.SetMyVisibility)
	users.Get("/", s.GetAllUsers)
	// Specific /search and /:id/:resource routes BEFORE generic /:id route
	users.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "user_search"), s.SearchUsersBySkill)
	users.Get("/:id/skills", s.GetUserSkills)
	users.Get("/:id/ratings", s.GetUserRatings)
	users.Get("/:id", s.GetUserProfile)

	// Skill routes
	skills := protected.Group("/skills")
	skills.Post("/", s.AddSkill)
	skills.Get("/", s.GetMySkills)
	skills.Get("/me", s.GetMySkills)
	skills.Put("/:id", s.UpdateSkill)
	skills.Delete("/:id", s.DeleteSkill)

	// Swap request routes
	swaps := protected.Group("/swaps")
	swaps.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_swap"), s.CreateSwapRequest)
	swaps.Get("/", s.GetMySwaps)
	swaps.Get("/incoming", s.GetIncomingSwaps)
	swaps.Get("/outgoing", s.GetOutgoingSwaps)
	// Specific /:id/:action routes BEFORE generic /:id route
	swaps.Post("/:id/accept", s.AcceptSwap)
	swaps.Post("/:id/reject", s.RejectSwap)
	swaps.Post("/:id/cancel", s.CancelSwap)
	swaps.Post("/:id/complete", s.CompleteSwap)
	swaps.Post("/:id/ratings", s.RateSwap)
	swaps.Put("/:id/status", s.UpdateSwapStatus)
	swaps.Delete("/:id", s.DeleteSwap)
	swaps.Get("/:id", s.GetSwap)

	// Rating routes addressed by swap or by rated user
	ratings := protected.Group("/ratings")
	ratings.Post("/swap/:id", s.RateSwap)
	ratings.Get("/user/:id", s.GetUserRatings)

	// WebSocket ticket issuance and notification socket
	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)
	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/", s.WebsocketHandler())

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/stats", s.GetAdminStats)
	admin.Get("/users", s.GetAdminUsers)
	admin.Post("/users/:id/ban", s.BanUser)
	admin.Post("/users/:id/unban", s.UnbanUser)
	admin.Post("/users/:id/promote", s.PromoteToAdmin)
	admin.Post("/users/:id/demote", s.DemoteFromAdmin)
	admin.Post("/broadcast", s.BroadcastMessage)
	admin.Get("/messages", s.GetAdminMessages)
	admin.Delete("/messages/:id", s.DeleteAdminMessage)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; without it notifications stay instance-local.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdmin(c, userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		isWSPath := strings.HasPrefix(path, "/api/ws")

		// 1. Try WebSocket ticket first (short-lived, single-use)
		ticket := c.Query("ticket")
		if ticket != "" {
			// The upgrade handshake runs this middleware more than once, so a
			// ticket already consumed from Redis is honored from the
			// in-process cache within the grace window.
			s.consumedTicketsMu.Lock()
			entry, cached := s.consumedTickets[ticket]
			s.consumedTicketsMu.Unlock()
			if cached && time.Since(entry.consumeAt) < consumedTicketGrace {
				c.Locals("wsTicket", ticket)
				return s.admitUser(c, entry.userID)
			}

			if s.redis != nil {
				key := fmt.Sprintf("ws_ticket:%s", ticket)
				// GETDEL consumes atomically; a second client presenting the
				// same ticket gets nothing.
				userIDStr, err := s.redis.GetDel(c.Context(), key).Result()
				if err == nil {
					userID, parseErr := strconv.ParseUint(userIDStr, 10, 32)
					if parseErr == nil {
						s.consumedTicketsMu.Lock()
						if s.consumedTickets == nil {
							s.consumedTickets = make(map[string]consumedTicketEntry)
						}
						s.consumedTickets[ticket] = consumedTicketEntry{
							userID:    uint(userID),
							consumeAt: time.Now(),
						}
						s.consumedTicketsMu.Unlock()
						c.Locals("wsTicket", ticket)
						return s.admitUser(c, uint(userID))
					}
				}
			}
			// If ticket was provided but invalid/expired, fail if it's a WS path
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		// 2. Fall back to JWT (Bearer token or query param)
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Reject token in query param for WS routes (must use ticket)
		if tokenString == "" && !isWSPath {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		return s.admitUser(c, uint(userID))
	}
}

// consumeWSTicket drops a ticket from the in-process cache once the socket
// it authenticated has closed. Accepts the raw Locals value so callers do not
// need to type-assert.
func (s *Server) consumeWSTicket(ctx context.Context, ticketVal interface{}) {
	ticket, ok := ticketVal.(string)
	if !ok || ticket == "" {
		return
	}

	s.consumedTicketsMu.Lock()
	delete(s.consumedTickets, ticket)
	s.consumedTicketsMu.Unlock()

	if s.redis != nil {
		s.redis.Del(ctx, fmt.Sprintf("ws_ticket:%s", ticket))
	}
}

// admitUser finishes authentication: banned accounts are rejected even with
// a valid token, then the user ID is stored for handlers and logging.
func (s *Server) admitUser(c *fiber.Ctx, userID uint) error {
	banned, err := s.isBannedByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if banned {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Account is banned"))
	}

	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
	return c.Next()
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "SkillSwap API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the hub to the Redis subscriber if available
	if s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", s.hub.Name(), err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
