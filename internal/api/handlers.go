package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/propertycalc/internal/finance"
	"github.com/sells-group/propertycalc/internal/model"
	"github.com/sells-group/propertycalc/internal/report"
)

const invalidBody = "Invalid request body"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var form model.PropertyForm
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	if err := form.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prop, err := s.store.CreateProperty(r.Context(), form.Inputs())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to create property", err)
		return
	}
	s.writeJSON(w, http.StatusOK, prop)
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.store.ListProperties(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to fetch properties", err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(props))
}

func (s *Server) handleListByPostcode(w http.ResponseWriter, r *http.Request) {
	props, err := s.store.ListPropertiesByPostcode(r.Context(), chi.URLParam(r, "postcode"))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to fetch properties", err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(props))
}

type calculateRequest struct {
	FormData           model.PropertyForm `json:"formData"`
	IncludeComparables bool               `json:"includeComparables"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	if err := req.FormData.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	form := req.FormData.WithDefaults()
	in := form.Inputs()

	var comparables []model.Comparable
	if req.IncludeComparables {
		props, err := s.store.ListPropertiesByPostcode(r.Context(), in.Postcode)
		if err != nil {
			s.fail(w, r, http.StatusInternalServerError, "Failed to fetch properties", err)
			return
		}
		comparables = model.Comparables(props)
	}

	snap := report.Build(form, in, comparables, s.risk)
	s.writeJSON(w, http.StatusOK, snap)
}

type loanResponse struct {
	finance.LoanAnalysis
	Amortization []finance.AmortizationYear `json:"amortization"`
}

func (s *Server) handleLoan(w http.ResponseWriter, r *http.Request) {
	var in finance.LoanInputs
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis := finance.AnalyzeLoan(in)
	schedule := finance.AmortizationSchedule(analysis.LoanAmount, in.InterestRate, in.LoanTermYears)
	s.writeJSON(w, http.StatusOK, loanResponse{
		LoanAnalysis: analysis,
		Amortization: nonNil(finance.YearlyAmortization(schedule)),
	})
}

func (s *Server) handleROI(w http.ResponseWriter, r *http.Request) {
	var in finance.ROIInputs
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, finance.ProjectROI(in))
}

func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	var in finance.TaxInputs
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, finance.ProjectTax(in))
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	props, err := s.store.ListProperties(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to fetch properties", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report.Analyze(props))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Property insights are not configured")
		return
	}

	var req model.InsightsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, invalidBody)
		return
	}

	out, err := s.insights.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to generate property insights", err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

type shareRequest struct {
	PropertyData *model.Snapshot `json:"propertyData"`
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil || req.PropertyData == nil {
		s.writeError(w, http.StatusBadRequest, invalidBody)
		return
	}

	rep, err := s.store.CreateSharedReport(r.Context(), *req.PropertyData, s.shareTTL)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to create shared report", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"shareId": rep.ShareID})
}

const (
	msgReportNotFound = "Report not found"
	msgReportExpired  = "Report has expired"
)

// lookupShare resolves a live shared report or writes the error response.
func (s *Server) lookupShare(w http.ResponseWriter, r *http.Request) (*model.SharedReport, bool) {
	rep, err := s.store.GetSharedReport(r.Context(), chi.URLParam(r, "shareId"))
	switch {
	case err != nil:
		s.fail(w, r, http.StatusInternalServerError, "Failed to fetch shared report", err)
		return nil, false
	case rep == nil:
		s.writeError(w, http.StatusNotFound, msgReportNotFound)
		return nil, false
	case rep.Expired(s.now()):
		s.writeError(w, http.StatusGone, msgReportExpired)
		return nil, false
	}
	return rep, true
}

func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookupShare(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleExportShare(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatCSV
	}
	if format != report.FormatCSV && format != report.FormatXLSX {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported export format %q", format))
		return
	}

	rep, ok := s.lookupShare(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, rep.PropertyData); err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to export shared report", err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+rep.ShareID+"."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
