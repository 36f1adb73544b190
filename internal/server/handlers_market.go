package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Tejaspatil1175/finora/internal/common"
)

// handleMarketMovers handles GET /api/market/movers.
func (s *Server) handleMarketMovers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	movers, cached, err := s.app.MarketService.GetTopMovers(r.Context())
	if err != nil {
		writeCompanyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"movers": movers,
		"cached": cached,
	})
}

// handleMarketScreener handles GET /api/market/screener?filter=large|small.
func (s *Server) handleMarketScreener(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filter := r.URL.Query().Get("filter")
	companies, err := s.app.MarketService.ScreenByMarketCap(r.Context(), filter)
	if err != nil {
		writeCompanyError(w, err)
		return
	}

	if filter == "" {
		filter = "all"
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"filter":    filter,
		"count":     len(companies),
		"companies": companies,
	})
}

// handleMarketSearch handles GET /api/market/search with optional query,
// sector, minMarketCap, and maxMarketCap parameters.
func (s *Server) handleMarketSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	minCap, ok := capParam(w, q.Get("minMarketCap"), "minMarketCap")
	if !ok {
		return
	}
	maxCap, ok := capParam(w, q.Get("maxMarketCap"), "maxMarketCap")
	if !ok {
		return
	}

	companies, err := s.app.MarketService.SearchCompanies(r.Context(), q.Get("query"), q.Get("sector"), minCap, maxCap)
	if err != nil {
		writeCompanyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(companies),
		"companies": companies,
	})
}

// routeIndicators dispatches /api/market/indicators/{symbol}/{sma|rsi|all}.
func (s *Server) routeIndicators(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/market/indicators/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		WriteError(w, http.StatusBadRequest, "symbol and indicator are required in path")
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol := parts[0]

	switch parts[1] {
	case "sma":
		period, ok := periodParam(w, r, common.DefaultSMAPeriod)
		if !ok {
			return
		}
		series, err := s.app.MarketService.GetSMA(r.Context(), symbol, period)
		if err != nil {
			writeCompanyError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, series)

	case "rsi":
		period, ok := periodParam(w, r, common.DefaultRSIPeriod)
		if !ok {
			return
		}
		series, err := s.app.MarketService.GetRSI(r.Context(), symbol, period)
		if err != nil {
			writeCompanyError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, series)

	case "all":
		snapshot, err := s.app.MarketService.GetIndicators(r.Context(), symbol)
		if err != nil {
			writeCompanyError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, snapshot)

	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// periodParam reads the timePeriod query parameter, falling back to the
// indicator's default. The bool reports whether the request may proceed.
func periodParam(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("timePeriod")
	if raw == "" {
		return fallback, true
	}
	period, err := strconv.Atoi(raw)
	if err != nil || period < 1 {
		WriteError(w, http.StatusBadRequest, "timePeriod must be a positive integer")
		return 0, false
	}
	return period, true
}

// capParam parses an optional market cap bound.
func capParam(w http.ResponseWriter, raw, name string) (*float64, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, name+" must be numeric")
		return nil, false
	}
	return &v, true
}
