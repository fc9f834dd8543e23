package freshbooks

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/booksbridge/books-bridge/internal/auth/token"
	"github.com/booksbridge/books-bridge/internal/config"
)

// HandleCallback processes the OAuth callback from FreshBooks: it verifies
// the state token, exchanges the authorization code, and hands the new
// credential to the store.
func HandleCallback(cfg *config.Config, store *token.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get("state")
		if state != GetStateToken() {
			http.Error(w, "Invalid state token", http.StatusBadRequest)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
			return
		}

		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		redirectURL := fmt.Sprintf("%s://%s/auth/callback", scheme, r.Host)

		oauthConfig := OAuthConfig(cfg, redirectURL)
		tok, err := oauthConfig.Exchange(context.Background(), code)
		if err != nil {
			http.Error(w, fmt.Sprintf("Token exchange failed: %v", err), http.StatusInternalServerError)
			return
		}

		store.Set(token.Credential{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			ExpiresAt:    tok.Expiry.Unix(),
		})
		log.Printf("✅ FreshBooks account connected, token expires %s", tok.Expiry.Format("2006-01-02 15:04:05"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta http-equiv="refresh" content="3;url=/">
	<title>Connected</title>
	<style>
		body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; background: #1a1a2e; color: #eee; }
		.success { color: #4ade80; }
		.redirect { color: #9ca3af; margin-top: 20px; }
	</style>
</head>
<body>
	<h1 class="success">✅ FreshBooks Connected!</h1>
	<p>Your books are ready to export.</p>
	<p class="redirect">Redirecting to the dashboard in 3 seconds...</p>
</body>
</html>`)
	}
}
