package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/booksbridge/books-bridge/internal/util"
)

// Individual calls get a generous fixed timeout; the page ceiling is the
// loop-level backstop, so there is no overall extraction deadline.
const requestTimeout = 2 * time.Minute

// Client handles communication with the FreshBooks API.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new upstream client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// GetJSON performs an authenticated GET and decodes the JSON body. A
// non-200 status comes back as *UpstreamError carrying the body.
func (c *Client) GetJSON(ctx context.Context, url, accessToken string, header http.Header) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if util.IsVerbose() {
		log.Printf("🔄 [VERBOSE] GET %s -> %d\n%s", url, resp.StatusCode, util.TruncateBytes(body))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			URL:        url,
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return decoded, nil
}
