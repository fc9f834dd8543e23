package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/booksbridge/books-bridge/internal/auth/token"
	"github.com/booksbridge/books-bridge/internal/db/models"
	"github.com/booksbridge/books-bridge/internal/history"
	"github.com/booksbridge/books-bridge/internal/upstream"
)

// Extractor is the engine surface the front door consumes.
type Extractor interface {
	Fetch(ctx context.Context, req upstream.Request) (*upstream.Result, error)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("⚠️ Failed to encode response: %v", err)
	}
}

// parseRequest builds a fetch request from the query string.
func parseRequest(r *http.Request, resource string) upstream.Request {
	q := r.URL.Query()
	maxPages, _ := strconv.Atoi(q.Get("max_pages"))
	includeRaw := q.Get("include_raw")
	return upstream.Request{
		Resource: resource,
		Identifiers: upstream.Identifiers{
			AccountID:    q.Get("account_id"),
			BusinessID:   q.Get("business_id"),
			BusinessUUID: q.Get("business_uuid"),
		},
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		MaxPages:   maxPages,
		IncludeRaw: includeRaw == "true" || includeRaw == "1",
	}
}

// writeFetchError maps engine error kinds to HTTP status codes and adds a
// remediation hint where one helps.
func writeFetchError(w http.ResponseWriter, err error) {
	payload := map[string]any{
		"success": false,
		"error":   err.Error(),
	}

	var missing *upstream.MissingIdentifierError
	var upstreamErr *upstream.UpstreamError
	switch {
	case errors.Is(err, upstream.ErrUnknownResourceType):
		writeJSON(w, http.StatusNotFound, payload)
	case errors.As(err, &missing):
		writeJSON(w, http.StatusBadRequest, payload)
	case errors.Is(err, token.ErrMissingRefreshToken), errors.Is(err, token.ErrTokenRefreshFailed):
		payload["hint"] = "Reauthorization required. Reconnect FreshBooks via /auth/login."
		writeJSON(w, http.StatusUnauthorized, payload)
	case errors.As(err, &upstreamErr):
		if upstreamErr.StatusCode == http.StatusForbidden && strings.Contains(upstreamErr.Body, "scope") {
			payload["hint"] = "The connected app is missing a required scope. Update the app's scopes in FreshBooks and reconnect via /auth/login."
		}
		payload["upstream_status"] = upstreamErr.StatusCode
		payload["upstream_body"] = upstreamErr.Body
		writeJSON(w, http.StatusBadGateway, payload)
	default:
		writeJSON(w, http.StatusInternalServerError, payload)
	}
}

// recordRun writes the post-hoc history entry. Nil-safe; never fails the
// response.
func recordRun(recorder *history.Recorder, req upstream.Request, res *upstream.Result, err error, elapsed time.Duration) {
	if recorder == nil {
		return
	}
	entry := models.ExtractionLog{
		Resource:     req.Resource,
		AccountID:    req.Identifiers.AccountID,
		BusinessID:   req.Identifiers.BusinessID,
		BusinessUUID: req.Identifiers.BusinessUUID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Duration:     elapsed.Milliseconds(),
		Success:      err == nil,
	}
	if res != nil {
		entry.Total = res.Total
		entry.Truncated = res.Truncated
	}
	if err != nil {
		entry.Error = err.Error()
	}
	recorder.Record(entry)
}
