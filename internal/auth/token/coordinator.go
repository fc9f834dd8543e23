package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// RefreshMargin is how early to refresh before expiration.
	RefreshMargin = 60 * time.Second
	// DefaultLifetime applies when the token response omits expires_in.
	DefaultLifetime = 3600 * time.Second
)

var (
	// ErrMissingRefreshToken means no refresh token is stored at all;
	// the account has to be reconnected through the login flow.
	ErrMissingRefreshToken = errors.New("no refresh token stored")
	// ErrTokenRefreshFailed means the upstream refused or failed the
	// refresh call; reauthorization is required.
	ErrTokenRefreshFailed = errors.New("token refresh failed")
)

// Coordinator hands out valid access tokens. Concurrent callers that find
// the token expired collapse into a single network refresh; everyone
// waiting on that flight observes the same outcome.
type Coordinator struct {
	store        *Store
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	group        singleflight.Group
}

// NewCoordinator creates a Coordinator refreshing against tokenURL.
func NewCoordinator(store *Store, tokenURL, clientID, clientSecret string) *Coordinator {
	return &Coordinator{
		store:        store,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// EnsureValidToken returns a bearer token that is good for at least
// RefreshMargin. A fresh cached token is returned without suspension or
// network traffic; otherwise the caller joins the in-flight refresh, or
// becomes the sole refresher if none is running.
func (c *Coordinator) EnsureValidToken(ctx context.Context) (string, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		// A queued caller may arrive after the previous flight already
		// renewed the token.
		if tok, ok := c.cached(); ok {
			return tok, nil
		}
		cred := c.store.Get()
		if cred.RefreshToken == "" {
			return nil, ErrMissingRefreshToken
		}
		return c.refresh(cred)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// cached returns the stored access token when it is still comfortably
// inside its lifetime.
func (c *Coordinator) cached() (string, bool) {
	cred := c.store.Get()
	if cred.AccessToken != "" && time.Now().Add(RefreshMargin).Unix() < cred.ExpiresAt {
		return cred.AccessToken, true
	}
	return "", false
}

// refresh performs the network call against the token endpoint. On success
// the store is updated (rotating the refresh token when the server sends a
// new one); on failure stored credentials are left untouched so the next
// caller retries.
func (c *Coordinator) refresh(cred Credential) (string, error) {
	log.Printf("🔄 Refreshing access token...")

	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {cred.RefreshToken},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	resp, err := c.httpClient.PostForm(c.tokenURL, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenRefreshFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Token refresh rejected (%d): %s", resp.StatusCode, body)
		return "", fmt.Errorf("%w (%d): %s", ErrTokenRefreshFailed, resp.StatusCode, body)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("%w: unreadable token response: %v", ErrTokenRefreshFailed, err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: token response carried no access token", ErrTokenRefreshFailed)
	}

	lifetime := DefaultLifetime
	if tokenResp.ExpiresIn > 0 {
		lifetime = time.Duration(tokenResp.ExpiresIn) * time.Second
	}

	next := Credential{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: cred.RefreshToken,
		ExpiresAt:    time.Now().Add(lifetime).Unix(),
	}
	if tokenResp.RefreshToken != "" && tokenResp.RefreshToken != cred.RefreshToken {
		log.Printf("🔄 Rotating refresh token")
		next.RefreshToken = tokenResp.RefreshToken
	}
	c.store.Set(next)

	log.Printf("✅ Token refreshed, expires at %s", time.Unix(next.ExpiresAt, 0).Format(time.RFC3339))
	return next.AccessToken, nil
}
