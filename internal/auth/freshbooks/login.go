package freshbooks

import (
	"fmt"
	"net/http"

	"github.com/booksbridge/books-bridge/internal/config"
)

// HandleLogin initiates the OAuth flow by redirecting to the FreshBooks
// consent page.
func HandleLogin(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Dynamically construct redirect URL from the request
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		redirectURL := fmt.Sprintf("%s://%s/auth/callback", scheme, r.Host)

		oauthConfig := OAuthConfig(cfg, redirectURL)
		http.Redirect(w, r, oauthConfig.AuthCodeURL(stateToken), http.StatusTemporaryRedirect)
	}
}
