package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable. The in-memory
// backend has no pinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the service info and health endpoints
type HealthHandler struct {
	db      Pinger
	started time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "BetAware API",
		"status":  "running",
		"endpoints": gin.H{
			"auth": gin.H{
				"register": "POST /api/v1/auth/register",
				"login":    "POST /api/v1/auth/login",
			},
			"bets": gin.H{
				"create":       "POST /api/v1/bets",
				"list":         "GET /api/v1/bets",
				"byPeriod":     "GET /api/v1/bets/period",
				"userByPeriod": "GET /api/v1/bets/user/period",
			},
			"health": "GET /health",
		},
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"db":     "unhealthy",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Seconds(),
	})
}

// RegisterHealthRoutes registers the info and health endpoints
func (h *HealthHandler) RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/", h.Info)
	r.GET("/health", h.Health)
}
