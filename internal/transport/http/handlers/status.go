package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sssalamanders/penny-lane/internal/core/domain"
	"github.com/sssalamanders/penny-lane/internal/infra/config"
)

// RelayStatusProvider is the read-only view of the relay the status surface
// needs. The usecase layer satisfies it.
type RelayStatusProvider interface {
	Status() domain.RelayStatus
}

// StatusHandler reports the relay's in-memory footprint. Counts only; no
// identifiers cross this boundary.
type StatusHandler struct {
	relay     RelayStatusProvider
	registry  config.RegistrySettings
	startedAt time.Time
}

// NewStatusHandler builds the status handler.
func NewStatusHandler(relay RelayStatusProvider, registry config.RegistrySettings) *StatusHandler {
	return &StatusHandler{
		relay:     relay,
		registry:  registry,
		startedAt: time.Now().UTC(),
	}
}

// Status returns live entry counts and the configured expiry windows.
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		LiveEntries:          h.relay.Status().LiveEntries,
		TTLSeconds:           int(h.registry.TTL.Seconds()),
		SweepIntervalSeconds: int(h.registry.SweepInterval.Seconds()),
		UptimeSeconds:        int(time.Since(h.startedAt).Seconds()),
	})
}
