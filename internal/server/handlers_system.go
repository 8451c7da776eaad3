package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bobmcallan/finsim/internal/common"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// DiagnosticsResponse describes the running process and its host.
type DiagnosticsResponse struct {
	common.VersionInfo
	Uptime        string          `json:"uptime"`
	StartedAt     time.Time       `json:"started_at"`
	Goroutines    int             `json:"goroutines"`
	HeapAllocMB   float64         `json:"heap_alloc_mb"`
	CPUPercent    float64         `json:"cpu_percent"`
	MemoryPercent float64         `json:"memory_percent"`
	Archive       string          `json:"archive"`
	Features      map[string]bool `json:"features"`
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	resp := DiagnosticsResponse{
		VersionInfo: common.GetVersionInfo(),
		Uptime:      time.Since(s.app.StartupTime).Round(time.Second).String(),
		StartedAt:   s.app.StartupTime,
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(ms.HeapAlloc) / 1024 / 1024,
		Archive:     s.app.Config.Storage.Address(),
		Features:    s.app.Features(),
	}

	// 100ms sample keeps the endpoint responsive
	if pct, err := cpu.PercentWithContext(r.Context(), 100*time.Millisecond, false); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to get CPU percentage")
	} else if len(pct) > 0 {
		resp.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to get memory statistics")
	} else {
		resp.MemoryPercent = vm.UsedPercent
	}

	WriteJSON(w, http.StatusOK, resp)
}
