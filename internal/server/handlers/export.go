package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/booksbridge/books-bridge/internal/history"
	"github.com/booksbridge/books-bridge/internal/logging"
	"github.com/booksbridge/books-bridge/internal/normalize"
)

// ExportHandler runs one extraction and returns the fetch result as JSON.
func ExportHandler(engine Extractor, recorder *history.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource := chi.URLParam(r, "resource")
		req := parseRequest(r, resource)

		start := time.Now()
		res, err := engine.Fetch(r.Context(), req)
		recordRun(recorder, req, res, err, time.Since(start))
		if err != nil {
			log.Printf("❌ [%s] Export %s failed: %v", logging.GetRequestID(r.Context()), resource, err)
			writeFetchError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ExportCSVHandler runs the same extraction and streams it as CSV, with
// the header row in the resource's schema order.
func ExportCSVHandler(engine Extractor, recorder *history.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource := chi.URLParam(r, "resource")
		req := parseRequest(r, resource)
		req.IncludeRaw = false

		start := time.Now()
		res, err := engine.Fetch(r.Context(), req)
		recordRun(recorder, req, res, err, time.Since(start))
		if err != nil {
			log.Printf("❌ [%s] CSV export %s failed: %v", logging.GetRequestID(r.Context()), resource, err)
			writeFetchError(w, err)
			return
		}

		fields := normalize.Fields(resource)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", resource))

		cw := csv.NewWriter(w)
		if err := cw.Write(fields); err != nil {
			log.Printf("⚠️ CSV header write failed: %v", err)
			return
		}
		row := make([]string, len(fields))
		for _, rec := range res.Data {
			for i, f := range fields {
				row[i] = csvCell(rec[f])
			}
			if err := cw.Write(row); err != nil {
				log.Printf("⚠️ CSV row write failed: %v", err)
				return
			}
		}
		cw.Flush()
	}
}

func csvCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
