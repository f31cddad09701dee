package handler

import (
	"github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/http/middleware"
	redisStore "github.com/Godzilaa/Hostel-mess-attendance/internal/adapter/storage/redis"
	"github.com/Godzilaa/Hostel-mess-attendance/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	StatsSvc       ports.StatsService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	studentHandler := NewStudentHandler(deps.LedgerSvc)
	statsHandler := NewStatsHandler(deps.StatsSvc)
	students := v1.Group("/students")
	{
		students.GET("", rl("students"), studentHandler.FindOrCreate)
		students.POST("", rl("students"), studentHandler.Upsert)
		students.GET("/:walletAddress", rl("students"), studentHandler.Get)
		students.PATCH("/:walletAddress", rl("students"), studentHandler.UpdateProfile)
		students.GET("/:walletAddress/stats", rl("stats"), statsHandler.Get)
	}

	redemptionHandler := NewRedemptionHandler(deps.LedgerSvc)
	redemptions := v1.Group("/redemptions")
	{
		redemptions.POST("", rl("redemptions"), redemptionHandler.Record)
		redemptions.GET("", rl("redemptions"), redemptionHandler.List)
	}

	return r
}
