package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/config"
	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/internal/clubhouse"
	"github.com/sharath018/golftrip-backend/internal/event"
	"github.com/sharath018/golftrip-backend/internal/featureflag"
	"github.com/sharath018/golftrip-backend/internal/invitation"
	"github.com/sharath018/golftrip-backend/internal/notification"
	"github.com/sharath018/golftrip-backend/internal/reports"
	"github.com/sharath018/golftrip-backend/middleware"
	"gorm.io/gorm"

	_ "github.com/sharath018/golftrip-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the process-wide resources built in main.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client // nil when Redis is not configured
	Mailer notification.Mailer
	Log    zerolog.Logger
}

func Setup(r *gin.Engine, cfg *config.Config, deps Deps) error {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", clubhouse.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.RequestLogger(deps.Log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiLimit, err := middleware.RateLimiter(cfg.APIRateLimit, "golftrip:api", deps.Redis)
	if err != nil {
		return fmt.Errorf("api rate limit: %w", err)
	}
	gateLimit, err := middleware.RateLimiter(cfg.ClubhouseRateLimit, "golftrip:clubhouse-gate", deps.Redis)
	if err != nil {
		return fmt.Errorf("clubhouse rate limit: %w", err)
	}

	api := r.Group("/api")
	api.Use(apiLimit)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(deps.DB)
	auditSvc := auditlog.NewService(auditRepo, deps.Log)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Events ==========
	eventRepo := event.NewRepository(deps.DB)
	eventSvc := event.NewService(eventRepo, auditSvc, deps.Log)
	eventHandler := event.NewHandler(eventSvc)

	reportsHandler := reports.NewHandler(reports.NewReportService(
		reports.NewReportRepository(deps.DB), reports.NewReportExporter(), auditSvc))

	api.POST("/events", auth, eventHandler.CreateEvent)
	api.GET("/events", auth, eventHandler.ListMyEvents)
	api.GET("/events/:id", optionalAuth, eventHandler.GetEvent)
	api.PUT("/events/:id", auth, eventHandler.SaveTrip)
	api.PUT("/events/:id/clubhouse-password", auth, eventHandler.SetClubhousePassword)

	managed := api.Group("/events/:id", auth, eventHandler.RequireManager())
	{
		managed.GET("/players", eventHandler.ListPlayers)
		managed.POST("/players", eventHandler.AddPlayer)
		managed.DELETE("/players/:playerId", eventHandler.RemovePlayer)
		managed.GET("/players/export", reportsHandler.ExportRoster)
		managed.GET("/audit-logs", auditHandler.ListForEvent)
		managed.GET("/audit-logs/export", reportsHandler.ExportAuditLogs)
	}

	// ========== Clubhouse ==========
	clubhouseSvc := clubhouse.NewService(
		clubhouse.NewRepository(deps.DB),
		eventRepo,
		auditSvc,
		clubhouse.NewBroadcaster(deps.Redis),
		clubhouse.Options{
			JWTSecret:        cfg.JWTSecret,
			GateTokenTTL:     cfg.GateTokenTTL,
			SessionTTL:       cfg.ClubhouseSessionTTL,
			RequireGateToken: cfg.ClubhouseRequireGateToken,
		},
		deps.Log,
	)
	clubhouseHandler := clubhouse.NewHandler(clubhouseSvc)

	ch := api.Group("/clubhouse")
	{
		ch.POST("/verify-password", gateLimit, clubhouseHandler.VerifyPassword)
		ch.POST("/create-session", clubhouseHandler.CreateSession)
		ch.POST("/verify-session", clubhouseHandler.VerifySession)

		board := ch.Group("/events/:eventId", clubhouseHandler.RequireSession())
		board.GET("/messages", clubhouseHandler.ListMessages)
		board.POST("/messages", clubhouseHandler.PostMessage)
		board.GET("/stream", clubhouseHandler.Stream)
	}

	// ========== Invitations ==========
	invitationSvc := invitation.NewService(
		invitation.NewRepository(deps.DB),
		eventRepo,
		auditSvc,
		deps.Mailer,
		invitation.Options{AppBaseURL: cfg.AppBaseURL, PlaceholderDomains: cfg.PlaceholderEmailDomains},
		deps.Log,
	)
	invitationHandler := invitation.NewHandler(invitationSvc)

	api.GET("/invitations/:eventId", invitationHandler.Get)
	api.POST("/invitations/accept", optionalAuth, invitationHandler.Accept)
	api.POST("/invitations/send", auth, invitationHandler.Send)
	api.POST("/rpc/accept_event_invitation", auth, invitationHandler.AcceptRPC)

	// ========== Feature Flags ==========
	flags := featureflag.NewHandler(featureflag.NewClient(featureflag.Options{
		APIHost:   cfg.GrowthBookAPIHost,
		ClientKey: cfg.GrowthBookClientKey,
		CacheTTL:  cfg.FeatureFlagCacheTTL,
	}, featureflag.NewRedisCache(deps.Redis), deps.Log))

	api.GET("/feature-flags", flags.List)
	api.GET("/feature-flags/:key", flags.Get)

	return nil
}
