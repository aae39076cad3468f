package health

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Source produces a Report for the HTTP handlers.
type Source func(ctx context.Context) Report

// Evaluate returns a Source that runs every check per request, bounded by timeout.
func Evaluate(registry *Registry, timeout time.Duration) Source {
	return func(ctx context.Context) Report {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return registry.CheckAll(ctx)
	}
}

// Cached returns a Source serving the poller's latest report, falling back
// to fallback until the first evaluation has completed.
func Cached(p *Poller, fallback Source) Source {
	return func(ctx context.Context) Report {
		if r, ok := p.Latest(); ok {
			return r
		}
		return fallback(ctx)
	}
}

// LivenessHandler returns a handler for liveness checks.
// Always returns 200 OK if the process is running.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": StatusHealthy})
	}
}

// ReadinessHandler returns a handler for readiness checks.
// Returns 200 OK if all checks pass, 503 Service Unavailable otherwise.
func ReadinessHandler(source Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := source(c.Request.Context())

		status := http.StatusOK
		if !report.IsHealthy() {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, report)
	}
}

// CheckHandler runs the check named by the :name path parameter.
func CheckHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		res, err := registry.Check(ctx, c.Param("name"))
		if errors.Is(err, ErrCheckNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		status := http.StatusOK
		if !res.Result.IsHealthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, res)
	}
}

// HeapDumpHandler streams a heap dump. The live query parameter defaults to true.
func HeapDumpHandler(dumper HeapDumper) gin.HandlerFunc {
	return func(c *gin.Context) {
		live := true
		if v := c.Query("live"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "live must be a boolean"})
				return
			}
			live = parsed
		}

		dump, err := HeapDump(c.Request.Context(), dumper, live)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="heapdump"`)
		c.Data(http.StatusOK, "application/octet-stream", dump)
	}
}

// Routes registers the health endpoints on r.
func Routes(r gin.IRouter, registry *Registry, source Source, dumper HeapDumper) {
	r.GET("/health/live", LivenessHandler())
	r.GET("/health/ready", ReadinessHandler(source))
	timeout := registry.Timeout()
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	r.GET("/health/checks/:name", CheckHandler(registry, timeout+time.Second))
	if dumper != nil {
		r.GET("/debug/heapdump", HeapDumpHandler(dumper))
	}
}
