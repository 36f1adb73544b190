package server

import (
	"errors"
	"net/http"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// handleChat handles POST /api/chat. Authentication is optional: an
// authenticated caller gets portfolio and document context woven into
// the reply, an anonymous caller gets company and web context only.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SessionID string `json:"sessionId"`
		Symbol    string `json:"symbol"`
		Message   string `json:"message"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	var userID string
	if uc := common.UserContextFrom(r.Context()); uc != nil {
		userID = uc.UserID
	}

	reply, err := s.app.ChatService.Chat(r.Context(), userID, req.SessionID, req.Symbol, req.Message)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, reply)
}

// handleChatSessionCreate handles POST /api/chat/sessions.
func (s *Server) handleChatSessionCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Symbol string `json:"symbol"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	session, err := s.app.ChatService.NewSession(r.Context(), req.Symbol)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, session)
}

// handleChatHistory handles GET /api/chat/sessions/{id}.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.app.ChatService.GetHistory(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, session)
}

// handleChatSessionDelete handles DELETE /api/chat/sessions/{id}.
func (s *Server) handleChatSessionDelete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.app.ChatService.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
