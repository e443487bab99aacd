package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/willowtrade/willow/internal/export"
	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/pkg/logger"
)

// Screener runs one screening pass. Implemented by screener.Runner.
type Screener interface {
	Run(ctx context.Context) (*screener.Result, error)
}

// ResultsHandler serves saved screening results and triggers new runs.
type ResultsHandler struct {
	resultsDir string
	screener   Screener
	logger     *logger.Logger

	// screening guards against concurrent run requests.
	screening atomic.Bool
}

// NewResultsHandler creates a results handler.
func NewResultsHandler(resultsDir string, s Screener, log *logger.Logger) *ResultsHandler {
	return &ResultsHandler{
		resultsDir: resultsDir,
		screener:   s,
		logger:     log,
	}
}

// GetLatest returns the most recent screening result.
// GET /api/results/latest?min_ror=30
func (h *ResultsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result, err := export.LoadLatest(h.resultsDir)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest result")
		respondError(w, http.StatusInternalServerError, "Failed to load latest result")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "No screening results available")
		return
	}

	if raw := r.URL.Query().Get("min_ror"); raw != "" {
		minROR, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid min_ror parameter")
			return
		}
		result.Spreads = result.FilterByROR(minROR)
	}

	respondJSON(w, http.StatusOK, result)
}

// ResultFileInfo describes one saved result file.
type ResultFileInfo struct {
	File            string `json:"file"`
	Timestamp       string `json:"timestamp"`
	TotalSpreads    int    `json:"total_spreads"`
	SymbolsScreened int    `json:"symbols_screened"`
}

// List returns all saved results, newest first.
// GET /api/results
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	paths, err := export.ListResults(h.resultsDir)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list results")
		respondError(w, http.StatusInternalServerError, "Failed to list results")
		return
	}

	infos := make([]ResultFileInfo, 0, len(paths))
	for _, path := range paths {
		result, err := export.LoadJSON(path)
		if err != nil {
			h.logger.WithError(err).WithField("file", filepath.Base(path)).Warn("Skipping unreadable result file")
			continue
		}
		infos = append(infos, ResultFileInfo{
			File:            filepath.Base(path),
			Timestamp:       result.Timestamp.Format(time.RFC3339),
			TotalSpreads:    result.TotalSpreads(),
			SymbolsScreened: result.SymbolsScreened,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(infos),
		"results": infos,
	})
}

// Screen runs a screening pass synchronously and persists the result.
// POST /api/screen
func (h *ResultsHandler) Screen(w http.ResponseWriter, r *http.Request) {
	if !h.screening.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "A screening run is already in progress")
		return
	}
	defer h.screening.Store(false)

	result, err := h.screener.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Screening run failed")
		respondError(w, http.StatusInternalServerError, "Screening run failed")
		return
	}

	if _, err := export.SaveJSON(h.resultsDir, result); err != nil {
		h.logger.WithError(err).Error("Failed to save result")
		respondError(w, http.StatusInternalServerError, "Failed to save result")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
