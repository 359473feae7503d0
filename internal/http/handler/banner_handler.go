package handler

import (
	"net/http"
	"time"

	"github.com/firstrankcoders/credential-service/internal/health"
	"github.com/firstrankcoders/credential-service/internal/http/response"
)

type BannerHandler struct {
	name string
	now  func() time.Time
}

func NewBannerHandler(name string) *BannerHandler {
	return &BannerHandler{name: name, now: time.Now}
}

// Root answers GET / with the service name and the current UTC time.
func (h *BannerHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.name+" "+h.now().UTC().Format(time.RFC3339), nil)
}

type HealthHandler struct {
	readiness *health.ProbeRunner
}

func NewHealthHandler(readiness *health.ProbeRunner) *HealthHandler {
	return &HealthHandler{readiness: readiness}
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.readiness == nil {
		response.JSON(w, r, http.StatusOK, "ready", map[string]any{"status": "ready", "checks": []health.CheckResult{}})
		return
	}
	ready, results := h.readiness.Ready(r.Context())
	if ready {
		response.JSON(w, r, http.StatusOK, "ready", map[string]any{"status": "ready", "checks": results})
		return
	}
	response.Error(w, r, http.StatusServiceUnavailable, "dependencies are not ready", results)
}
