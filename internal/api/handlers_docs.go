package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists documents that have stored Q&A output.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Store().List()
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleGetQA returns the stored Q&A pairs for a document.
func (s *Server) handleGetQA(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	items, err := s.orchestrator.Store().Load(name)
	if err != nil {
		jsonError(w, "failed to load pairs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		jsonError(w, "no stored output for document", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"document": name,
		"count":    len(items),
		"pairs":    items,
	})
}

// handleDeleteDocument removes a document's stored Q&A output.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.orchestrator.Store().Delete(name); err != nil {
		jsonError(w, "failed to delete: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": name})
}
