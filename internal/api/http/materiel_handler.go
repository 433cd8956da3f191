package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"materiel-lending-backend/internal/domain"
)

type materielRequest struct {
	Name              string            `json:"name"`
	MaterielType      string            `json:"materiel_type"`
	AvailableUnits    int32             `json:"available_units"`
	LowStockThreshold int32             `json:"low_stock_threshold"`
	Specs             map[string]string `json:"specs,omitempty"`
}

func (s *Server) handleCreateMateriel(w http.ResponseWriter, r *http.Request) {
	var req materielRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	m := &domain.Materiel{
		Name:              req.Name,
		MaterielType:      req.MaterielType,
		AvailableUnits:    req.AvailableUnits,
		LowStockThreshold: req.LowStockThreshold,
		Specs:             req.Specs,
	}
	if err := s.materielSvc.CreateMateriel(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMateriels(w http.ResponseWriter, r *http.Request) {
	materiels, err := s.materielSvc.ListMateriels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"materiels": materiels})
}

func (s *Server) handleGetMateriel(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	m, err := s.materielSvc.GetMateriel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMateriel(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req materielRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	m := &domain.Materiel{
		ID:                id,
		Name:              req.Name,
		MaterielType:      req.MaterielType,
		LowStockThreshold: req.LowStockThreshold,
		Specs:             req.Specs,
	}
	if err := s.materielSvc.UpdateMateriel(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.materielSvc.GetMateriel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMateriel(w http.ResponseWriter, r *http.Request) {
	if err := s.materielSvc.DeleteMateriel(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMaterielStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.materielSvc.GetMaterielStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// pathID extracts the numeric {id} path variable. The route pattern
// guarantees digits, so conversion cannot fail for routed requests.
func pathID(r *http.Request) int32 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	return int32(id)
}
