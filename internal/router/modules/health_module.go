package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-accounts/pkg/response"
)

// Check reports whether a backing service is reachable
type Check func(ctx context.Context) error

// HealthModule serves GET /health and, when enabled, expvar under /debug/vars.
type HealthModule struct {
	Checks       map[string]Check
	DebugMetrics bool
}

func NewHealthModule(checks map[string]Check, debugMetrics bool) *HealthModule {
	return &HealthModule{Checks: checks, DebugMetrics: debugMetrics}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.health)
	if m.DebugMetrics {
		rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	}
}

func (m *HealthModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(m.Checks))
	for name, check := range m.Checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	if status != http.StatusOK {
		response.Error[any](c, status, "unhealthy", results)
		return
	}
	response.Success(c, status, results, "healthy", nil)
}
