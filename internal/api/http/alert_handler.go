package http

import "net/http"

func (s *Server) handleListActiveAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alertSvc.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// handleRunDetectionPass is the manual trigger for the detection pass that
// otherwise runs on the nightly schedule.
func (s *Server) handleRunDetectionPass(w http.ResponseWriter, r *http.Request) {
	count, err := s.alertSvc.DetectionPass(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"overdue_loans": count})
}
