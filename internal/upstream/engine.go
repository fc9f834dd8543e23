package upstream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/booksbridge/books-bridge/internal/normalize"
)

const (
	// DefaultPerPage is the page size for paginated resources without a
	// per-descriptor override.
	DefaultPerPage = 150

	// DefaultMaxPages caps the pagination loop; hitting it marks the
	// result truncated rather than failing.
	DefaultMaxPages = 500
)

// TokenSource yields a valid access token, refreshing behind the scenes
// when needed.
type TokenSource interface {
	EnsureValidToken(ctx context.Context) (string, error)
}

// Request describes one extraction call. Constructed once; immutable.
type Request struct {
	Resource    string
	Identifiers Identifiers
	StartDate   string
	EndDate     string
	MaxPages    int
	IncludeRaw  bool
}

// Result is what an extraction returns to the caller.
type Result struct {
	Success   bool               `json:"success"`
	Total     int                `json:"total"`
	Data      []normalize.Record `json:"data"`
	Truncated bool               `json:"truncated"`
	Raw       []map[string]any   `json:"raw,omitempty"`
}

// Engine walks the upstream API per the registry and hands every raw item
// through the normalizer.
type Engine struct {
	client  *Client
	tokens  TokenSource
	baseURL string
}

// NewEngine creates a fetch engine against the given API base URL.
func NewEngine(client *Client, tokens TokenSource, baseURL string) *Engine {
	return &Engine{
		client:  client,
		tokens:  tokens,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// urlCursor is a per-request working copy of a descriptor's URL plus its
// fallback alternates. Never shared across requests; the registry's
// descriptors stay immutable.
type urlCursor struct {
	active    string
	remaining []URLBuilder
	base      string
	ids       Identifiers
}

func newURLCursor(desc *Descriptor, base string, ids Identifiers) *urlCursor {
	remaining := make([]URLBuilder, len(desc.Alternates))
	copy(remaining, desc.Alternates)
	return &urlCursor{
		active:    desc.URL(base, ids),
		remaining: remaining,
		base:      base,
		ids:       ids,
	}
}

// advance pops the next usable alternate URL. Builders that cannot be
// satisfied with the supplied identifiers are skipped.
func (u *urlCursor) advance() bool {
	for len(u.remaining) > 0 {
		build := u.remaining[0]
		u.remaining = u.remaining[1:]
		if next := build(u.base, u.ids); next != "" {
			u.active = next
			return true
		}
	}
	return false
}

// fallbackStatus reports whether an upstream status is worth retrying
// against an alternate URL.
func fallbackStatus(status int) bool {
	return status == http.StatusNotFound || status == http.StatusBadRequest
}

// Fetch runs one extraction: registry lookup, identifier validation,
// token acquisition, then the descriptor's fetch strategy.
func (e *Engine) Fetch(ctx context.Context, req Request) (*Result, error) {
	desc, err := Lookup(req.Resource)
	if err != nil {
		return nil, err
	}
	if err := desc.requireIdentifier(req.Identifiers); err != nil {
		return nil, err
	}

	accessToken, err := e.tokens.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	cursor := newURLCursor(desc, e.baseURL, req.Identifiers)
	res := &Result{Data: []normalize.Record{}}

	switch desc.Mode {
	case FetchDirect:
		err = e.fetchDirect(ctx, desc, req, accessToken, cursor, res)
	case FetchSingleCall:
		err = e.fetchSingle(ctx, desc, req, accessToken, cursor, res)
	default:
		err = e.fetchPaginated(ctx, desc, req, accessToken, cursor, res)
	}
	if err != nil {
		return nil, err
	}

	res.Success = true
	res.Total = len(res.Data)
	log.Printf("✅ %s: %d records (truncated=%v)", desc.Resource, res.Total, res.Truncated)
	return res, nil
}

// fetchDirect retrieves a single-object resource. Some resources carry a
// documented recovery path tried when the primary GET fails upstream.
func (e *Engine) fetchDirect(ctx context.Context, desc *Descriptor, req Request, accessToken string, cursor *urlCursor, res *Result) error {
	body, err := e.client.GetJSON(ctx, cursor.active, accessToken, nil)
	if err != nil {
		var ue *UpstreamError
		if desc.Recover != nil && errors.As(err, &ue) {
			log.Printf("⚠️ %s: %d on %s, trying recovery path", desc.Resource, ue.StatusCode, ue.URL)
			item, rerr := desc.Recover(ctx, e.client, e.baseURL, accessToken, req.Identifiers)
			if rerr != nil {
				return fmt.Errorf("recovery failed: %w", err)
			}
			res.append(desc.Resource, item, req.IncludeRaw)
			return nil
		}
		return err
	}
	res.append(desc.Resource, unwrapResponse(body), req.IncludeRaw)
	return nil
}

// fetchSingle retrieves an unpaginated list in one GET, falling back to
// alternate URLs once each on 404/400.
func (e *Engine) fetchSingle(ctx context.Context, desc *Descriptor, req Request, accessToken string, cursor *urlCursor, res *Result) error {
	for {
		pageURL, header := buildRequest(cursor.active, desc, req, 0, 0)
		body, err := e.client.GetJSON(ctx, pageURL, accessToken, header)
		if err != nil {
			var ue *UpstreamError
			if errors.As(err, &ue) && fallbackStatus(ue.StatusCode) && cursor.advance() {
				log.Printf("⚠️ %s: %d on %s, trying alternate URL", desc.Resource, ue.StatusCode, ue.URL)
				continue
			}
			return err
		}

		items, _ := extractItems(unwrapResponse(body), desc.ResultKey)
		for _, item := range items {
			res.append(desc.Resource, item, req.IncludeRaw)
		}
		return nil
	}
}

// fetchPaginated walks a list resource page by page. Termination: an
// empty page, a repeated first-item id (stuck pagination), the
// server-reported last page, or the page ceiling (marks truncated).
func (e *Engine) fetchPaginated(ctx context.Context, desc *Descriptor, req Request, accessToken string, cursor *urlCursor, res *Result) error {
	perPage := DefaultPerPage
	if desc.PageSizeOverride > 0 {
		perPage = desc.PageSizeOverride
	}
	maxPages := DefaultMaxPages
	if req.MaxPages > 0 {
		maxPages = req.MaxPages
	}

	page := 1
	prevFirstID := ""
	for {
		if page > maxPages {
			log.Printf("⚠️ %s: page ceiling %d reached, truncating", desc.Resource, maxPages)
			res.Truncated = true
			return nil
		}

		pageURL, header := buildRequest(cursor.active, desc, req, page, perPage)
		body, err := e.client.GetJSON(ctx, pageURL, accessToken, header)
		if err != nil {
			var ue *UpstreamError
			if errors.As(err, &ue) && fallbackStatus(ue.StatusCode) && cursor.advance() {
				log.Printf("⚠️ %s: %d on %s, trying alternate URL", desc.Resource, ue.StatusCode, ue.URL)
				prevFirstID = ""
				continue
			}
			return err
		}

		env := unwrapResponse(body)
		items, _ := extractItems(env, desc.ResultKey)
		if len(items) == 0 {
			return nil
		}

		firstID := itemID(items[0])
		if firstID != "" && firstID == prevFirstID {
			log.Printf("⚠️ %s: page %d repeats first item %s, stopping", desc.Resource, page, firstID)
			return nil
		}
		prevFirstID = firstID

		for _, item := range items {
			res.append(desc.Resource, item, req.IncludeRaw)
		}

		if pages := extractTotalPages(env); pages > 0 && page >= pages {
			return nil
		}
		page++
	}
}

// append runs one raw item through the normalizer and accumulates its
// records. Items that normalize to nothing are dropped; one-to-many
// expansions contribute all of their records.
func (r *Result) append(resource string, item map[string]any, includeRaw bool) {
	if item == nil {
		return
	}
	if includeRaw {
		r.Raw = append(r.Raw, item)
	}
	r.Data = append(r.Data, normalize.Normalize(resource, item)...)
}

// buildRequest assembles the concrete page URL and extra headers. The
// business-family URL shape takes page_number/page_size; everything else
// takes page/per_page. Only the forced strategy needs the version header.
func buildRequest(active string, desc *Descriptor, req Request, page, perPage int) (string, http.Header) {
	u, err := url.Parse(active)
	if err != nil {
		return active, nil
	}
	q := u.Query()

	if page > 0 {
		pageKey, sizeKey := "page", "per_page"
		if desc.Mode == FetchForcedPaginated && strings.Contains(active, "/accounting/businesses/") {
			pageKey, sizeKey = "page_number", "page_size"
		}
		q.Set(pageKey, strconv.Itoa(page))
		q.Set(sizeKey, strconv.Itoa(perPage))
	}

	if desc.AllowDateFilter {
		if req.StartDate != "" {
			q.Set("search[date_min]", req.StartDate)
		}
		if req.EndDate != "" {
			q.Set("search[date_max]", req.EndDate)
		}
	}

	for _, inc := range desc.IncludeParams {
		q.Add("include[]", inc)
	}

	u.RawQuery = q.Encode()

	var header http.Header
	if desc.Mode == FetchForcedPaginated {
		header = http.Header{"X-Api-Version": []string{"alpha"}}
	}
	return u.String(), header
}
