package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	goruntime "runtime"
	"strings"
	"time"

	"github.com/nerrad567/instrument-core/internal/runtime"
	"github.com/nerrad567/instrument-core/internal/uplink"
)

// commandTimeout bounds how long a command request waits for a tick.
const commandTimeout = 2 * time.Second

// bytesPerMB converts byte counts to megabytes.
const bytesPerMB = 1024 * 1024

// StatusResponse is the response of GET /api/v1/status.
type StatusResponse struct {
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version"`
	Session       string           `json:"session,omitempty"`
	Ready         bool             `json:"ready"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Ticks         *runtime.Stats   `json:"ticks,omitempty"`
	Participants  []runtime.Status `json:"participants,omitempty"`
	Uplink        *uplink.Stats    `json:"uplink,omitempty"`
	WebSocket     WSMetrics        `json:"websocket"`
	Process       ProcessMetrics   `json:"process"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int    `json:"connected_clients"`
	DroppedEvents    uint64 `json:"dropped_events"`
}

// ProcessMetrics contains Go runtime statistics.
type ProcessMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// CommandRequest is the body of POST /api/v1/commands.
type CommandRequest struct {
	Line string `json:"line"`
}

// handleStatus reports tick statistics, participant health and transport counters.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC()
	resp := StatusResponse{
		Timestamp: now.Format(time.RFC3339),
		Version:   s.version,
		Session:   s.session,
		Ready:     s.rt == nil || s.rt.Ready(),
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
			DroppedEvents:    s.hub.Dropped(),
		},
		Process: processMetrics(),
	}

	if s.rt != nil {
		stats := s.rt.Stats()
		resp.Ticks = &stats
		resp.Participants = s.rt.Status()
		if !stats.Started.IsZero() {
			resp.UptimeSeconds = int64(now.Sub(stats.Started).Seconds())
		}
	}
	if s.uplink != nil {
		up := s.uplink.Stats()
		resp.Uplink = &up
	}

	writeJSON(w, http.StatusOK, resp)
}

func processMetrics() ProcessMetrics {
	var mem goruntime.MemStats
	goruntime.ReadMemStats(&mem)
	return ProcessMetrics{
		Goroutines:    goruntime.NumGoroutine(),
		MemoryAllocMB: float64(mem.Alloc) / bytesPerMB,
		NumGC:         mem.NumGC,
	}
}

// handleCommand runs one console command line on the runtime goroutine and
// returns its output.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Line) == "" {
		writeBadRequest(w, "line is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	res, err := s.bridge.submit(ctx, req.Line)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, ErrCommandQueueFull):
		writeUnavailable(w, "command queue full")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, ErrCodeTimeout, "runtime did not run the command in time")
	default:
		writeUnavailable(w, err.Error())
	}
}
