package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"seating-backend/config"
	"seating-backend/internal/engine"
	"seating-backend/internal/mw"
	"seating-backend/internal/prefs"
	"seating-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.AllocationStore, layouts store.LayoutStore, eng *engine.Engine, matcher *prefs.Matcher, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, layouts, eng, matcher, webpushOptions)
	handler.tableDiameter = cfg.Restaurant.TableDiameter

	limit := rate.Limit(10)
	if cfg.Server.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.Server.RateLimitPerSec)
	}
	burst := int(limit)
	if burst < 5 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(limit, burst)

	ttl := 5 * time.Minute
	if cfg.Server.CacheTTLSeconds > 0 {
		ttl = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	}
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	// Allocation writes invalidate every cached seat-map response.
	handler.bustCache = cacheStore.Flush

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/layouts", caching, handler.GetLayouts)
		api.GET("/layouts/:layout_id", caching, handler.GetLayout)
		api.GET("/layouts/:layout_id/bounds", caching, handler.GetLayoutBounds)

		api.GET("/allocations", caching, handler.GetAllocations)
		api.POST("/allocations/seat-now", handler.SeatNow)
		api.POST("/allocations/reserve", handler.Reserve)

		api.POST("/occupants/:kind/:id/arrive", handler.Arrive)
		api.POST("/occupants/:kind/:id/finish", handler.Finish)
		api.POST("/occupants/:kind/:id/no-show", handler.NoShow)
		api.POST("/occupants/:kind/:id/cancel", handler.Cancel)

		api.GET("/reservations/:reservation_id/preferences", handler.EvaluatePreferences)
		api.POST("/reservations/:reservation_id/preferences/:option/assign", handler.AssignFromPreference)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
