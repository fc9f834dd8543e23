package handlers

import (
	"net/http"
	"strconv"

	"github.com/booksbridge/books-bridge/internal/history"
)

// HistoryHandler returns recent extraction summaries plus aggregate
// stats.
func HistoryHandler(recorder *history.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{
			"entries": recorder.Recent(limit),
			"stats":   recorder.Stats(),
		})
	}
}
