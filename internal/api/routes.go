package api

import (
	"encoding/hex"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/trade-brain/internal/dedup"
	"github.com/rawblock/trade-brain/internal/heat"
	"github.com/rawblock/trade-brain/internal/position"
	"github.com/rawblock/trade-brain/internal/reservation"
	"github.com/rawblock/trade-brain/pkg/models"
)

// Dependencies are the subsystems the dashboard/admin API reads from and
// (for manual exit) drives. All fields besides ManualExit are read-only
// snapshots; nothing here sits on Brain's decision path.
type Dependencies struct {
	Positions    *position.Store
	Reservations *reservation.Manager
	Dedup        *dedup.Deduplicator
	Heat         *heat.Calculator
	WSHub        *Hub
	// ManualExit triggers an out-of-band full exit for mint, bypassing the
	// exit policy (spec §3 supplemented feature: POST /positions/:mint/exit).
	ManualExit func(mint models.Mint) error
}

type APIHandler struct {
	deps Dependencies
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{deps: deps}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", deps.WSHub.Subscribe)
	}

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	auth.Use(NewRateLimiter(30, 5).Middleware())
	{
		auth.GET("/positions", handler.handleListPositions)
		auth.GET("/stats/reservations", handler.handleReservationStats)
		auth.GET("/stats/heat", handler.handleHeatStats)
		auth.GET("/stats/dedup", handler.handleDedupStats)
	}

	// Manual exit fires a live SELL decision and bypasses the ordered exit
	// policy, so it gets a tighter budget than the read-only routes above
	// and refuses to run at all with auth unconfigured.
	mutate := r.Group("/api/v1")
	mutate.Use(RequireConfiguredAuth())
	mutate.Use(NewRateLimiter(6, 2).Middleware())
	{
		mutate.POST("/positions/:mint/exit", handler.handleManualExit)
	}

	r.Static("/dashboard", "./public")

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "trade-brain",
		"capabilities": gin.H{
			"fsm":         true,
			"dedup":       true,
			"reservation": true,
			"heat":        true,
			"sigtracker":  true,
		},
		"openPositions": h.deps.Positions.Count(),
	})
}

func (h *APIHandler) handleListPositions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.deps.Positions.All()})
}

func parseMintParam(c *gin.Context) (models.Mint, bool) {
	raw, err := hex.DecodeString(c.Param("mint"))
	if err != nil || len(raw) != 32 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mint must be 32 bytes hex-encoded"})
		return models.Mint{}, false
	}
	var mint models.Mint
	copy(mint[:], raw)
	return mint, true
}

// handleManualExit triggers an out-of-band full exit for a position,
// bypassing the ordered exit policy (spec §3 supplemented feature).
func (h *APIHandler) handleManualExit(c *gin.Context) {
	mint, ok := parseMintParam(c)
	if !ok {
		return
	}
	if _, exists := h.deps.Positions.Get(mint); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open position for mint"})
		return
	}
	if h.deps.ManualExit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "manual exit not wired"})
		return
	}
	if err := h.deps.ManualExit(mint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "manual_exit_submitted", "mint": mint.String()})
}

func (h *APIHandler) handleReservationStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Reservations.GetStats())
}

func (h *APIHandler) handleHeatStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Heat.CalculateHeat())
}

func (h *APIHandler) handleDedupStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Dedup.Stats())
}
