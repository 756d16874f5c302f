package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"itemseek-backend/internal/auth"
	"itemseek-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(h.log))

	server := h.cfg.Server
	ttl := time.Duration(server.CacheTTLSeconds) * time.Second

	rateLimiter := mw.RateLimiter(server.RateLimitPerSec, server.RateLimitBurst)
	requireAuth := auth.Middleware(h.issuer, h.revocations, h.log)
	// Cache sits behind auth so cached reads are never served anonymously.
	caching := mw.Cache(cache.New(ttl, 2*ttl), ttl)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", h.Login)
		api.POST("/auth/signup", h.Signup)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	private := api.Group("")
	private.Use(requireAuth, caching)
	{
		private.POST("/auth/logout", h.Logout)
		private.GET("/config", h.GetConfig)

		private.GET("/items", h.ListItems)
		private.POST("/items", h.CreateItem)
		private.GET("/items/export", h.ExportItems)
		private.GET("/items/:id", h.GetItem)
		private.PATCH("/items/:id", h.PatchItem)
		private.POST("/items/:id/transact", h.TransactItem)
		private.GET("/items/:id/transactions", h.ListItemTransactions)

		private.GET("/locations", h.ListLocations)
		private.POST("/locations", h.CreateLocation)
		private.GET("/locations/:id", h.GetLocation)
		private.PATCH("/locations/:id", h.PatchLocation)
		private.POST("/locations/:id/advance", h.AdvanceLocation)

		private.GET("/tasks", h.ListTasks)
		private.POST("/tasks", h.CreateTask)
		private.GET("/tasks/:id", h.GetTask)
		private.PATCH("/tasks/:id", h.PatchTask)
		private.POST("/tasks/:id/advance", h.AdvanceTask)

		private.GET("/rooms", h.ListRooms)
		private.POST("/rooms", h.CreateRoom)
		private.GET("/rooms/:id", h.GetRoom)
		private.PATCH("/rooms/:id", h.PatchRoom)
		private.POST("/rooms/:id/advance", h.AdvanceRoom)

		private.GET("/laundry", h.ListLaundry)
		private.POST("/laundry", h.CreateLaundry)
		private.GET("/laundry/:id", h.GetLaundry)
		private.PATCH("/laundry/:id", h.PatchLaundry)
		private.POST("/laundry/:id/advance", h.AdvanceLaundry)

		private.GET("/subscriptions", h.GetSubscription)
		private.PUT("/subscriptions", h.PutSubscription)
		private.DELETE("/subscriptions", h.DeleteSubscription)
	}

	return r
}
