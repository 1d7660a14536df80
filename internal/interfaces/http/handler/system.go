package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCounter reports how many console sessions are live.
type SessionCounter interface {
	Len() int
}

// SystemHandler serves the health endpoint.
type SystemHandler struct {
	name      string
	version   string
	backend   string
	sessions  SessionCounter
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version, backendURL string, sessions SessionCounter) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		backend:   backendURL,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Backend   string `json:"backend"`
	Sessions  int    `json:"sessions"`
}

// Health reports that the console process is up. It does not call the backend.
func (h *SystemHandler) Health(c *gin.Context) {
	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Len()
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Backend:   h.backend,
		Sessions:  sessions,
	})
}
