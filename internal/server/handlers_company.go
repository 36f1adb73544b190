package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Tejaspatil1175/finora/internal/models"
)

// writeCompanyError maps service errors to HTTP status codes.
func writeCompanyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrRateLimited):
		WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleCompanyList handles GET /api/companies.
func (s *Server) handleCompanyList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	companies, err := s.app.CompanyService.ListCompanies(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing companies: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
	})
}

// handleCompanyGet handles GET /api/companies/{symbol}.
func (s *Server) handleCompanyGet(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	data, err := s.app.CompanyService.GetCompanyData(r.Context(), symbol)
	if err != nil {
		writeCompanyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, data)
}

// handleCompanyRefresh handles POST /api/companies/{symbol}/refresh.
func (s *Server) handleCompanyRefresh(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	data, err := s.app.CompanyService.RefreshCompanyData(r.Context(), symbol)
	if err != nil {
		writeCompanyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, data)
}

// handleCompanyAnalysis dispatches /api/companies/{symbol}/analysis by method.
func (s *Server) handleCompanyAnalysis(w http.ResponseWriter, r *http.Request, symbol string) {
	switch r.Method {
	case http.MethodPost:
		analysis, cached, err := s.app.AnalysisService.AnalyzeCompany(r.Context(), symbol)
		if err != nil {
			writeCompanyError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"analysis": analysis,
			"cached":   cached,
		})

	case http.MethodGet:
		analysis, err := s.app.AnalysisService.GetAnalysis(r.Context(), symbol)
		if err != nil {
			writeCompanyError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, analysis)

	case http.MethodDelete:
		if err := s.app.AnalysisService.DeleteAnalysis(r.Context(), symbol); err != nil {
			writeCompanyError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodPost, http.MethodGet, http.MethodDelete)
	}
}
