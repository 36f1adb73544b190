package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/Tejaspatil1175/finora/internal/models"
	"github.com/Tejaspatil1175/finora/internal/services/document"
)

// handleDocumentUpload handles POST /api/documents (multipart form).
// The upload is acknowledged immediately; extraction and analysis run
// in the background workers.
func (s *Server) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	maxSize := s.app.Config.Documents.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "Upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "A 'file' form field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	fileName := filepath.Base(header.Filename)
	fileType := r.FormValue("fileType")
	if fileType == "" {
		fileType = document.FileTypeForName(fileName)
	}
	category := r.FormValue("category")

	doc, err := s.app.DocumentService.Submit(r.Context(), userID, fileName, fileType, category, content)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusAccepted, doc)
}

// handleDocumentList handles GET /api/documents.
func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	docs, err := s.app.DocumentService.List(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

// handleDocumentGet handles GET /api/documents/{id}.
func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request, documentID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	doc, err := s.app.DocumentService.Get(r.Context(), userID, documentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Document not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// handleDocumentDelete handles DELETE /api/documents/{id}.
func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request, documentID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := s.app.DocumentService.Delete(r.Context(), userID, documentID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Document not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
