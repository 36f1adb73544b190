package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/me", s.handleAuthMe)

	// Companies
	mux.HandleFunc("/api/companies/", s.routeCompanies)
	mux.HandleFunc("/api/companies", s.handleCompanyList)

	// Market
	mux.HandleFunc("/api/market/movers", s.handleMarketMovers)
	mux.HandleFunc("/api/market/screener", s.handleMarketScreener)
	mux.HandleFunc("/api/market/search", s.handleMarketSearch)
	mux.HandleFunc("/api/market/indicators/", s.routeIndicators)

	// Chat
	mux.HandleFunc("/api/chat/sessions/", s.routeChatSessions)
	mux.HandleFunc("/api/chat/sessions", s.handleChatSessionCreate)
	mux.HandleFunc("/api/chat", s.handleChat)

	// Documents
	mux.HandleFunc("/api/documents/", s.routeDocuments)
	mux.HandleFunc("/api/documents", s.handleDocumentsRoot)

	// Portfolio
	mux.HandleFunc("/api/portfolio/buy", s.handlePortfolioBuy)
	mux.HandleFunc("/api/portfolio/sell", s.handlePortfolioSell)
	mux.HandleFunc("/api/portfolio/orders", s.handlePortfolioOrders)
	mux.HandleFunc("/api/portfolio/positions", s.handlePortfolioPositions)
	mux.HandleFunc("/api/portfolio/chart", s.handlePortfolioChart)
	mux.HandleFunc("/api/portfolio", s.handlePortfolioGet)
}

// routeCompanies dispatches /api/companies/{symbol}/* to the appropriate handler.
func (s *Server) routeCompanies(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/companies/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	parts := strings.SplitN(path, "/", 2)
	symbol := parts[0]

	if len(parts) == 1 {
		s.handleCompanyGet(w, r, symbol)
		return
	}

	switch parts[1] {
	case "refresh":
		s.handleCompanyRefresh(w, r, symbol)
	case "analysis":
		s.handleCompanyAnalysis(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeChatSessions dispatches /api/chat/sessions/{id} to the appropriate handler.
func (s *Server) routeChatSessions(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/chat/sessions/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		WriteError(w, http.StatusBadRequest, "session ID is required in path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleChatHistory(w, r, sessionID)
	case http.MethodDelete:
		s.handleChatSessionDelete(w, r, sessionID)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// routeDocuments dispatches /api/documents/{id} to the appropriate handler.
func (s *Server) routeDocuments(w http.ResponseWriter, r *http.Request) {
	documentID := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if documentID == "" || strings.Contains(documentID, "/") {
		WriteError(w, http.StatusBadRequest, "document ID is required in path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleDocumentGet(w, r, documentID)
	case http.MethodDelete:
		s.handleDocumentDelete(w, r, documentID)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handleDocumentsRoot handles POST (upload) and GET (list) on /api/documents.
func (s *Server) handleDocumentsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleDocumentUpload(w, r)
	case http.MethodGet:
		s.handleDocumentList(w, r)
	default:
		RequireMethod(w, r, http.MethodPost, http.MethodGet)
	}
}
