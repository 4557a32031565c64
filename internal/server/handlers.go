package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sysdash/sysdash-agent/config"
	"github.com/sysdash/sysdash-agent/internal/cache"
	"github.com/sysdash/sysdash-agent/internal/guard"
	"github.com/sysdash/sysdash-agent/internal/process"
	"github.com/sysdash/sysdash-agent/internal/telemetry"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg        *config.Config
	cache      *cache.TelemetryCache
	collector  *telemetry.Collector
	aggregator *telemetry.Aggregator
	lister     *process.Lister
	allowlist  *guard.Allowlist
	killer     *guard.Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config) *Handlers {
	lister := process.NewLister()
	collector := telemetry.NewCollector()
	allowlist := guard.NewAllowlist(cfg.KillAllowlist)
	limiter := guard.NewKillLimiter(cfg.KillRateLimitPerMin, guard.SystemClock())

	return &Handlers{
		cfg:        cfg,
		cache:      cache.NewTelemetryCache(),
		collector:  collector,
		aggregator: telemetry.NewAggregator(lister, collector),
		lister:     lister,
		allowlist:  allowlist,
		killer:     guard.NewController(allowlist, limiter, process.Resolve),
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

// GetInfo handles GET /api/info
func (h *Handlers) GetInfo(c *gin.Context) {
	cached, found := h.cache.Get(cache.KeyHost)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	hostInfo, err := telemetry.GetHostInfo()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Set(cache.KeyHost, hostInfo)
	c.JSON(http.StatusOK, hostInfo)
}

// GetSnapshot handles GET /api/metrics
func (h *Handlers) GetSnapshot(c *gin.Context) {
	cached, found := h.cache.Get(cache.KeySnapshot)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	snapshot, err := h.collector.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Set(cache.KeySnapshot, snapshot)
	c.JSON(http.StatusOK, snapshot)
}

// GetCPU handles GET /api/metrics/cpu
func (h *Handlers) GetCPU(c *gin.Context) {
	cached, found := h.cache.Get(cache.KeyCPU)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	stats, err := h.collector.CPU()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Set(cache.KeyCPU, stats)
	c.JSON(http.StatusOK, stats)
}

// GetMemory handles GET /api/metrics/memory
func (h *Handlers) GetMemory(c *gin.Context) {
	cached, found := h.cache.Get(cache.KeyMemory)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	stats, err := h.collector.Memory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Set(cache.KeyMemory, stats)
	c.JSON(http.StatusOK, stats)
}

// GetDisk handles GET /api/metrics/disk
func (h *Handlers) GetDisk(c *gin.Context) {
	cached, found := h.cache.Get(cache.KeyDisk)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	disks, err := h.collector.Disks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Set(cache.KeyDisk, disks)
	c.JSON(http.StatusOK, disks)
}

// GetNetwork handles GET /api/metrics/network
func (h *Handlers) GetNetwork(c *gin.Context) {
	cached, found := h.cache.Get(cache.KeyNetwork)
	if found {
		c.JSON(http.StatusOK, cached)
		return
	}

	stats, err := h.collector.Network()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Set(cache.KeyNetwork, stats)
	c.JSON(http.StatusOK, stats)
}

// ListProcesses handles GET /api/processes
func (h *Handlers) ListProcesses(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	opts := process.ListOptions{
		SortBy:       c.DefaultQuery("sort_by", "cpu"),
		Limit:        limit,
		NameContains: c.Query("name_contains"),
		User:         c.Query("user"),
	}

	list, err := h.lister.List(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

// KillProcess handles POST /api/processes/:pid/kill
func (h *Handlers) KillProcess(c *gin.Context) {
	pid, err := strconv.ParseInt(c.Param("pid"), 10, 32)
	if err != nil || pid < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pid"})
		return
	}

	// Flags default to false: no body means no confirmation.
	var req guard.KillRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	req.PID = int32(pid)

	result := h.killer.Kill(req)
	if !result.OK {
		c.JSON(http.StatusForbidden, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSummary handles GET /api/summary
func (h *Handlers) GetSummary(c *gin.Context) {
	windowStr := c.DefaultQuery("window_s", strconv.Itoa(h.cfg.SummaryWindowSeconds))
	topNStr := c.DefaultQuery("top_n", strconv.Itoa(h.cfg.SummaryTopN))

	windowSeconds, err := strconv.Atoi(windowStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_s must be an integer"})
		return
	}
	topN, err := strconv.Atoi(topNStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "top_n must be an integer"})
		return
	}

	summary, err := h.aggregator.Summarize(windowSeconds, topN)
	if err != nil {
		if errors.Is(err, telemetry.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetPolicy handles GET /api/policy. Read-only: the kill policy is fixed
// at startup.
func (h *Handlers) GetPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"kill_allowlist":          h.allowlist.Names(),
		"kill_rate_limit_per_min": h.cfg.KillRateLimitPerMin,
		"summary_window_s":        h.cfg.SummaryWindowSeconds,
		"summary_top_n":           h.cfg.SummaryTopN,
	})
}

// StreamEvents handles GET /api/events (SSE metrics)
func (h *Handlers) StreamEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ticker.C:
			snapshot, err := h.collector.All()
			if err != nil {
				c.SSEvent("error", gin.H{"error": err.Error()})
				return true
			}
			data, _ := json.Marshal(snapshot)
			c.SSEvent("metrics", string(data))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
