package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"materiel-lending-backend/internal/domain"
	"materiel-lending-backend/internal/service"
)

const dateLayout = "2006-01-02"

type createLoanRequest struct {
	Matricule          string `json:"matricule"`
	BorrowerName       string `json:"borrower_name"`
	Level              string `json:"level"`
	MaterielID         int32  `json:"materiel_id"`
	CheckoutDate       string `json:"checkout_date"`
	ExpectedReturnDate string `json:"expected_return_date,omitempty"`
	CheckoutTime       string `json:"checkout_time"`
}

type updateLoanRequest struct {
	Matricule           *string `json:"matricule,omitempty"`
	BorrowerName        *string `json:"borrower_name,omitempty"`
	Level               *string `json:"level,omitempty"`
	MaterielID          *int32  `json:"materiel_id,omitempty"`
	CheckoutDate        *string `json:"checkout_date,omitempty"`
	CheckoutTime        *string `json:"checkout_time,omitempty"`
	ExpectedReturnDate  *string `json:"expected_return_date,omitempty"`
	ClearExpectedReturn bool    `json:"clear_expected_return,omitempty"`
	ReturnTime          *string `json:"return_time,omitempty"`
	ClearReturnTime     bool    `json:"clear_return_time,omitempty"`
	ActualReturnDate    *string `json:"actual_return_date,omitempty"`
}

type markReturnedRequest struct {
	ReturnTime string `json:"return_time,omitempty"`
	ReturnDate string `json:"return_date,omitempty"`
}

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	checkoutDate, err := parseDate(req.CheckoutDate, "checkout_date")
	if err != nil {
		writeError(w, err)
		return
	}
	var expected *time.Time
	if req.ExpectedReturnDate != "" {
		d, err := parseDate(req.ExpectedReturnDate, "expected_return_date")
		if err != nil {
			writeError(w, err)
			return
		}
		expected = &d
	}

	l := &domain.Loan{
		Matricule:          req.Matricule,
		BorrowerName:       req.BorrowerName,
		Level:              req.Level,
		MaterielID:         req.MaterielID,
		CheckoutDate:       checkoutDate,
		ExpectedReturnDate: expected,
		CheckoutTime:       req.CheckoutTime,
	}
	if err := s.loanSvc.CreateLoan(r.Context(), l); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.LoanFilters{
		Matricule:    q.Get("matricule"),
		BorrowerName: q.Get("borrower"),
		Status:       q.Get("status"),
	}
	if v := q.Get("materiel_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			writeError(w, domain.NewValidationError("materiel_id", "must be numeric"))
			return
		}
		f.MaterielID = int32(id)
	}
	if v := q.Get("from"); v != "" {
		d, err := parseDate(v, "from")
		if err != nil {
			writeError(w, err)
			return
		}
		f.CheckoutFrom = &d
	}
	if v := q.Get("to"); v != "" {
		d, err := parseDate(v, "to")
		if err != nil {
			writeError(w, err)
			return
		}
		f.CheckoutTo = &d
	}

	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), 50)

	loans, total, err := s.loanSvc.ListLoans(r.Context(), f, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": loans, "total": total})
}

func (s *Server) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := s.loanSvc.GetLoan(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req updateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	upd := service.LoanUpdate{
		Matricule:           req.Matricule,
		BorrowerName:        req.BorrowerName,
		Level:               req.Level,
		MaterielID:          req.MaterielID,
		CheckoutTime:        req.CheckoutTime,
		ClearExpectedReturn: req.ClearExpectedReturn,
		ReturnTime:          req.ReturnTime,
		ClearReturnTime:     req.ClearReturnTime,
	}
	if req.CheckoutDate != nil {
		d, err := parseDate(*req.CheckoutDate, "checkout_date")
		if err != nil {
			writeError(w, err)
			return
		}
		upd.CheckoutDate = &d
	}
	if req.ExpectedReturnDate != nil {
		d, err := parseDate(*req.ExpectedReturnDate, "expected_return_date")
		if err != nil {
			writeError(w, err)
			return
		}
		upd.ExpectedReturnDate = &d
	}
	if req.ActualReturnDate != nil {
		d, err := parseDate(*req.ActualReturnDate, "actual_return_date")
		if err != nil {
			writeError(w, err)
			return
		}
		upd.ActualReturnDate = &d
	}

	l, err := s.loanSvc.UpdateLoan(r.Context(), pathID(r), upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleMarkReturned(w http.ResponseWriter, r *http.Request) {
	var req markReturnedRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.NewValidationError("body", "invalid JSON"))
			return
		}
	}

	var returnDate *time.Time
	if req.ReturnDate != "" {
		d, err := parseDate(req.ReturnDate, "return_date")
		if err != nil {
			writeError(w, err)
			return
		}
		returnDate = &d
	}

	l, err := s.loanSvc.MarkReturned(r.Context(), pathID(r), req.ReturnTime, returnDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.loanSvc.DeleteLoan(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCountLoans(w http.ResponseWriter, r *http.Request) {
	count, err := s.loanSvc.CountLoans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"count": count})
}

func (s *Server) handleLoanStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.loanSvc.GetLoanStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func parseDate(value, field string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func queryInt(value string, fallback int32) int32 {
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n < 1 {
		return fallback
	}
	return int32(n)
}
