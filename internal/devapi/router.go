package devapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/middleware"
)

// NewRouter mounts the API under /api and memory-storage files under /files.
// Reads are public; writes and uploads need an admin token.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(h.origins),
	)

	router.GET("/files/*key", h.ServeFile)

	api := router.Group("/api")
	api.GET("/health", h.Health)
	if h.loginRate > 0 {
		api.POST("/auth/login", middleware.RateLimit(h.loginRate, h.loginRate), h.Login)
	} else {
		api.POST("/auth/login", h.Login)
	}

	admin := []gin.HandlerFunc{middleware.AuthMiddleware(h.tokens), middleware.AdminMiddleware()}
	api.POST("/upload", append(admin, h.Upload)...)

	for _, desc := range h.registry.All() {
		path := "/" + desc.Path
		if desc.Singleton {
			page := strings.TrimPrefix(desc.Path, "content/")
			api.GET(path, h.GetContent(desc, page))
			api.PUT(path, append(admin, h.UpdateContent(desc, page))...)
			continue
		}

		group := api.Group(path)
		group.GET("", h.List(desc))
		group.GET("/:id", h.Get(desc))

		writes := group.Group("", admin...)
		writes.POST("", h.Create(desc))
		writes.PUT("/:id", h.Update(desc))
		writes.DELETE("/:id", h.Delete(desc))
	}

	return router
}

// Health godoc
// GET /health
func (h *Handler) Health(c *gin.Context) {
	services := gin.H{}
	status := http.StatusOK

	if err := h.cache.Ping(c.Request.Context()); err != nil {
		services["cache"] = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	} else {
		services["cache"] = "ok"
	}

	if _, err := h.store.IDs(c.Request.Context(), "health"); err != nil {
		services["store"] = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	} else {
		services["store"] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    state,
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	})
}
