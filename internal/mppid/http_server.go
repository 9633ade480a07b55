// Package mppid hosts the controller behind a small HTTP JSON surface for
// integration, soak testing and visualization tooling.
package mppid

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aosmw/navigation2/internal/canbus"
	"github.com/aosmw/navigation2/internal/optimizer"
	"github.com/aosmw/navigation2/internal/viz"
	"github.com/aosmw/navigation2/pkg/logger"
	"github.com/aosmw/navigation2/pkg/models"
)

// HTTPServer serializes access to the single-writer optimizer and exposes
// the compute/trajectory/reset operations.
type HTTPServer struct {
	mux  *http.ServeMux
	ctrl *optimizer.Optimizer
	log  *slog.Logger

	// The optimizer is not re-entrant; one control cycle at a time.
	mu sync.Mutex

	viz *viz.Dumper
	can *canbus.Sink
}

// NewHTTPServer wires the route table.
func NewHTTPServer(ctrl *optimizer.Optimizer, log *slog.Logger) *HTTPServer {
	if log == nil {
		log = logger.Default
	}
	s := &HTTPServer{
		mux:  http.NewServeMux(),
		ctrl: ctrl,
		log:  log,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/compute", s.handleCompute)
	s.mux.HandleFunc("/v1/trajectory", s.handleTrajectory)
	s.mux.HandleFunc("/v1/reset", s.handleReset)

	return s
}

// WithViz attaches a per-cycle plot dumper.
func (s *HTTPServer) WithViz(d *viz.Dumper) *HTTPServer {
	s.viz = d
	return s
}

// WithCANSink attaches a CAN command sink.
func (s *HTTPServer) WithCANSink(sink *canbus.Sink) *HTTPServer {
	s.can = sink
	return s
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

// ComputeRequest is one control-cycle input: where the robot is, how fast it
// is moving, and the pruned reference path in the robot's frame.
type ComputeRequest struct {
	Pose  models.Pose   `json:"pose"`
	Twist models.Twist  `json:"twist"`
	Path  []models.Pose `json:"path"`
	// ReturnTrajectory includes the optimized trajectory in the response.
	ReturnTrajectory bool `json:"return_trajectory,omitempty"`
}

// ComputeResponse carries the velocity command and optional diagnostics.
type ComputeResponse struct {
	CmdVel     models.Twist  `json:"cmd_vel"`
	Trajectory []models.Pose `json:"trajectory,omitempty"`
	ElapsedUS  int64         `json:"elapsed_us"`
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCompute runs one full control cycle.
func (s *HTTPServer) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	path := models.PathFromPoses(req.Path)

	start := time.Now()
	s.mu.Lock()
	cmd := s.ctrl.EvalControl(req.Pose, req.Twist, path)
	resp := ComputeResponse{
		CmdVel:    cmd,
		ElapsedUS: time.Since(start).Microseconds(),
	}
	if req.ReturnTrajectory {
		resp.Trajectory = s.ctrl.Trajectory()
	}
	if s.viz != nil {
		optimized := resp.Trajectory
		if optimized == nil {
			optimized = s.ctrl.Trajectory()
		}
		if name, err := s.viz.DumpCycle(s.ctrl.CandidateTrajectories(), path, optimized); err != nil {
			s.log.Warn("viz dump failed", "error", err)
		} else {
			s.log.Debug("viz dump written", "path", name)
		}
	}
	s.mu.Unlock()

	if s.can != nil {
		if err := s.can.Publish(r.Context(), cmd); err != nil {
			s.log.Warn("can publish failed", "error", err)
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleTrajectory returns the optimized trajectory from the last cycle.
func (s *HTTPServer) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.Lock()
	trajectory := s.ctrl.Trajectory()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"trajectory": trajectory,
	})
}

// handleReset zeroes the control sequence and noise buffers, e.g. on a new
// goal or after recovery.
func (s *HTTPServer) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.Lock()
	s.ctrl.Reset()
	s.mu.Unlock()

	s.log.Info("controller reset via api")
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
