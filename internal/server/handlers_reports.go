package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/finsim/internal/models"
)

// GrowthReportRequest is a plan plus report options.
type GrowthReportRequest struct {
	models.GrowthPlan
	models.ReportOptions
}

// BondReportRequest is a bond plus report options.
type BondReportRequest struct {
	models.BondParams
	models.ReportOptions
}

func (s *Server) handleGrowthReport(w http.ResponseWriter, r *http.Request) {
	var req GrowthReportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	plan, err := req.GrowthPlan.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}

	rep, err := s.app.ReportService.BuildGrowthReport(r.Context(), plan, req.ReportOptions)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	w.Header().Set("Location", "/api/reports/"+rep.ID)
	WriteJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleBondReport(w http.ResponseWriter, r *http.Request) {
	var req BondReportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	p, err := req.BondParams.Canonical()
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}

	rep, err := s.app.ReportService.BuildBondReport(r.Context(), p, req.ReportOptions)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	w.Header().Set("Location", "/api/reports/"+rep.ID)
	WriteJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	reports, err := s.app.ReportService.ListReports(r.Context())
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	if reports == nil {
		reports = []*models.Report{}
	}
	WriteJSON(w, http.StatusOK, reports)
}

func (s *Server) handleReportGet(w http.ResponseWriter, r *http.Request) {
	rep, err := s.app.ReportService.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportArtifact(artifact models.Artifact) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rep, err := s.app.ReportService.GetReport(r.Context(), id)
		if err != nil {
			WriteServiceError(w, s.logger, err)
			return
		}
		data, err := s.app.ReportService.GetArtifact(r.Context(), id, artifact)
		if err != nil {
			WriteServiceError(w, s.logger, err)
			return
		}

		name := fmt.Sprintf("report_%s_%s.%s", rep.Kind.Slug(), rep.CreatedAt.Format("20060102_150405"), artifact)
		w.Header().Set("Content-Type", artifact.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func (s *Server) handleReportEmail(w http.ResponseWriter, r *http.Request) {
	var to models.Recipient
	if !DecodeJSON(w, r, &to) {
		return
	}

	res, err := s.app.ReportService.EmailReport(r.Context(), chi.URLParam(r, "id"), to)
	if err != nil {
		WriteServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
