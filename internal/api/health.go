package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/meetstream/internal/inference"
	"github.com/skillsenselab/meetstream/internal/store"
)

// HealthHandler reports liveness of the service and its dependencies.
type HealthHandler struct {
	db      *store.DB
	clients inference.Clients
}

// NewHealthHandler wires the health endpoint.
func NewHealthHandler(db *store.DB, clients inference.Clients) *HealthHandler {
	return &HealthHandler{db: db, clients: clients}
}

// Health returns overall status plus per-dependency availability. The
// service is degraded, not down, when an inference backend is unreachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := "ok"
	checks := gin.H{}

	if err := h.db.PingContext(ctx); err != nil {
		status = "down"
		checks["database"] = "down"
	} else {
		checks["database"] = "ok"
	}

	for name, available := range map[string]bool{
		"transcriber": h.clients.Transcriber.IsAvailable(ctx),
		"diarizer":    h.clients.Diarizer.IsAvailable(ctx),
		"summarizer":  h.clients.Summarizer.IsAvailable(ctx),
	} {
		if available {
			checks[name] = "ok"
		} else {
			if status == "ok" {
				status = "degraded"
			}
			checks[name] = "down"
		}
	}

	code := http.StatusOK
	if status == "down" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": checks})
}
