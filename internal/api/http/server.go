package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"materiel-lending-backend/internal/service"
)

// Server wires the HTTP handlers to the router. It is the transport-level
// boundary only; every business rule lives in the services.
type Server struct {
	router      *mux.Router
	materielSvc service.MaterielService
	loanSvc     service.LoanService
	alertSvc    service.AlertService
}

func NewServer(materielSvc service.MaterielService, loanSvc service.LoanService, alertSvc service.AlertService, metrics *Metrics) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		materielSvc: materielSvc,
		loanSvc:     loanSvc,
		alertSvc:    alertSvc,
	}

	s.router.Use(RequestID, Logging, metrics.Middleware)

	s.router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	// Materiels
	api.HandleFunc("/materiels", s.handleCreateMateriel).Methods(http.MethodPost)
	api.HandleFunc("/materiels", s.handleListMateriels).Methods(http.MethodGet)
	api.HandleFunc("/materiels/stats", s.handleMaterielStats).Methods(http.MethodGet)
	api.HandleFunc("/materiels/{id:[0-9]+}", s.handleGetMateriel).Methods(http.MethodGet)
	api.HandleFunc("/materiels/{id:[0-9]+}", s.handleUpdateMateriel).Methods(http.MethodPut)
	api.HandleFunc("/materiels/{id:[0-9]+}", s.handleDeleteMateriel).Methods(http.MethodDelete)

	// Loans
	api.HandleFunc("/loans", s.handleCreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", s.handleListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/count", s.handleCountLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/stats", s.handleLoanStats).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}", s.handleGetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}", s.handleUpdateLoan).Methods(http.MethodPut)
	api.HandleFunc("/loans/{id:[0-9]+}/return", s.handleMarkReturned).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id:[0-9]+}", s.handleDeleteLoan).Methods(http.MethodDelete)

	// Alerts
	api.HandleFunc("/alerts", s.handleListActiveAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts/check", s.handleRunDetectionPass).Methods(http.MethodPost)

	return s
}

// Router returns the configured handler for use by http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}
