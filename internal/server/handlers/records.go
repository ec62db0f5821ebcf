// internal/server/handlers/records.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

// RecordHandler handles record-related HTTP requests
type RecordHandler struct {
	store post.RecordStore
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(store post.RecordStore) *RecordHandler {
	return &RecordHandler{
		store: store,
	}
}

// GetRecords returns stored records matching the query filters
func (h *RecordHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	filter := post.Filter{
		Category:    r.URL.Query().Get("category"),
		KeywordType: r.URL.Query().Get("keyword_type"),
	}

	if minScore := r.URL.Query().Get("min_score"); minScore != "" {
		score, err := strconv.Atoi(minScore)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid min_score", err)
			return
		}
		filter.MinScore = score
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	records, err := h.store.Load(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	matched := make([]post.PostRecord, 0, limit)
	for _, rec := range records {
		if !filter.Matches(rec) {
			continue
		}
		matched = append(matched, rec)
		if len(matched) == limit {
			break
		}
	}

	respondWithJSON(w, http.StatusOK, matched)
}

// GetRecord returns a specific record by content ID
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")
	if contentID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing content ID", nil)
		return
	}

	records, err := h.store.Load(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	for _, rec := range records {
		if rec.ContentID == contentID {
			respondWithJSON(w, http.StatusOK, rec)
			return
		}
	}

	respondWithError(w, http.StatusNotFound, "Record not found", ErrNotFound)
}

// GetCategories returns the distinct categories present in the store
// with record counts.
func (h *RecordHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Load(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Category]++
	}

	respondWithJSON(w, http.StatusOK, counts)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// Common errors
var (
	ErrNotFound = errors.New("not found")
)
