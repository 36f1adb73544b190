package server

import (
	"errors"
	"net/http"

	"github.com/Tejaspatil1175/finora/internal/models"
)

type tradeRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// handlePortfolioGet handles GET /api/portfolio.
func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := s.app.PortfolioService.GetPortfolio(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handlePortfolioBuy handles POST /api/portfolio/buy.
func (s *Server) handlePortfolioBuy(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, err := s.app.PortfolioService.Buy(r.Context(), userID, req.Symbol, req.Quantity, req.Price)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, order)
}

// handlePortfolioSell handles POST /api/portfolio/sell.
func (s *Server) handlePortfolioSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, err := s.app.PortfolioService.Sell(r.Context(), userID, req.Symbol, req.Quantity, req.Price)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, order)
}

// handlePortfolioOrders handles GET /api/portfolio/orders.
func (s *Server) handlePortfolioOrders(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := s.app.PortfolioService.GetOrders(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

// handlePortfolioPositions handles GET /api/portfolio/positions.
func (s *Server) handlePortfolioPositions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	positions, err := s.app.PortfolioService.GetPositions(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"positions": positions,
	})
}

// handlePortfolioChart handles GET /api/portfolio/chart, returning a PNG.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	png, err := s.app.PortfolioService.RenderAllocationChart(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
