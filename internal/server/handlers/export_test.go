package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/booksbridge/books-bridge/internal/auth/token"
	"github.com/booksbridge/books-bridge/internal/history"
	"github.com/booksbridge/books-bridge/internal/normalize"
	"github.com/booksbridge/books-bridge/internal/upstream"
)

type fakeExtractor struct {
	res *upstream.Result
	err error
	got upstream.Request
}

func (f *fakeExtractor) Fetch(ctx context.Context, req upstream.Request) (*upstream.Result, error) {
	f.got = req
	return f.res, f.err
}

func exportRouter(engine Extractor, recorder *history.Recorder) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/export/{resource}", ExportHandler(engine, recorder))
	r.Get("/api/export/{resource}/csv", ExportCSVHandler(engine, recorder))
	return r
}

func TestExportHandlerSuccess(t *testing.T) {
	fake := &fakeExtractor{res: &upstream.Result{
		Success: true,
		Total:   1,
		Data:    []normalize.Record{{"tax_id": 3.0, "name": "VAT"}},
	}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/api/export/taxes?account_id=a1&start_date=2024-01-01&end_date=2024-06-30&max_pages=7&include_raw=true", nil)

	exportRouter(fake, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fake.got.Resource != "taxes" || fake.got.Identifiers.AccountID != "a1" {
		t.Fatalf("request not parsed: %+v", fake.got)
	}
	if fake.got.StartDate != "2024-01-01" || fake.got.MaxPages != 7 || !fake.got.IncludeRaw {
		t.Fatalf("query params lost: %+v", fake.got)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true || body["total"] != 1.0 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestExportHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantHint   bool
	}{
		{name: "unknown resource", err: fmt.Errorf("%w: llamas", upstream.ErrUnknownResourceType), wantStatus: http.StatusNotFound},
		{name: "missing identifier", err: &upstream.MissingIdentifierError{Kind: upstream.IdentifierAccount}, wantStatus: http.StatusBadRequest},
		{name: "no refresh token", err: token.ErrMissingRefreshToken, wantStatus: http.StatusUnauthorized, wantHint: true},
		{name: "refresh failed", err: fmt.Errorf("%w (400): bad", token.ErrTokenRefreshFailed), wantStatus: http.StatusUnauthorized, wantHint: true},
		{
			name:       "insufficient scope",
			err:        &upstream.UpstreamError{StatusCode: http.StatusForbidden, Body: `{"message":"missing scope admin:all"}`},
			wantStatus: http.StatusBadGateway,
			wantHint:   true,
		},
		{name: "plain upstream failure", err: &upstream.UpstreamError{StatusCode: 500, Body: "boom"}, wantStatus: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExtractor{err: tt.err}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/export/taxes", nil)

			exportRouter(fake, nil).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["success"] != false {
				t.Fatalf("success should be false: %v", body)
			}
			if _, has := body["hint"]; has != tt.wantHint {
				t.Fatalf("hint presence = %v, want %v (%v)", has, tt.wantHint, body)
			}
		})
	}
}

func TestExportHandlerRecordsHistory(t *testing.T) {
	recorder := history.NewRecorder(nil)
	fake := &fakeExtractor{res: &upstream.Result{Success: true, Total: 4, Truncated: true}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/export/invoices?account_id=a1", nil)
	exportRouter(fake, recorder).ServeHTTP(rec, req)

	entries := recorder.Recent(1)
	if len(entries) != 1 {
		t.Fatalf("history entries = %d", len(entries))
	}
	entry := entries[0]
	if entry.Resource != "invoices" || entry.Total != 4 || !entry.Truncated || !entry.Success {
		t.Fatalf("unexpected history entry: %+v", entry)
	}
}

func TestExportCSVHandler(t *testing.T) {
	fake := &fakeExtractor{res: &upstream.Result{
		Success: true,
		Total:   2,
		Data: []normalize.Record{
			{"tax_id": 1.0, "name": "VAT", "rate": 20.0, "number": nil, "compound": false},
			{"tax_id": 2.0, "name": "GST", "rate": 5.5, "number": "T-2", "compound": true},
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/export/taxes/csv", nil)
	exportRouter(fake, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "tax_id,name,rate,number,compound" {
		t.Fatalf("header order wrong: %s", lines[0])
	}
	if lines[1] != "1,VAT,20,,false" {
		t.Fatalf("row 1 = %s", lines[1])
	}
	if lines[2] != "2,GST,5.5,T-2,true" {
		t.Fatalf("row 2 = %s", lines[2])
	}
}

func TestResourcesHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	ResourcesHandler()(rec, httptest.NewRequest("GET", "/api/resources", nil))

	var body struct {
		Resources []resourceInfo `json:"resources"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Resources) != 14 {
		t.Fatalf("expected 14 resources, got %d", len(body.Resources))
	}
	byName := map[string]resourceInfo{}
	for _, r := range body.Resources {
		byName[r.Resource] = r
	}
	if byName["journal_entries"].Strategy != "forced_paginated" {
		t.Fatalf("journal_entries strategy = %s", byName["journal_entries"].Strategy)
	}
	if byName["vendors"].DateFilter {
		t.Fatal("vendors must not advertise a date filter")
	}
	if byName["invoices"].Identifier != "account_id" {
		t.Fatalf("invoices identifier = %s", byName["invoices"].Identifier)
	}
}
