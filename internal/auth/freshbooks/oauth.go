package freshbooks

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/booksbridge/books-bridge/internal/config"
	"golang.org/x/oauth2"
)

// stateToken is used to protect against CSRF attacks
var stateToken string

func init() {
	b := make([]byte, 16)
	rand.Read(b)
	stateToken = hex.EncodeToString(b)
}

// TokenURL returns the OAuth token endpoint for the configured API base.
func TokenURL(cfg *config.Config) string {
	return cfg.APIBaseURL + "/auth/oauth/token"
}

// OAuthConfig returns the OAuth2 config for FreshBooks authentication.
func OAuthConfig(cfg *config.Config, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthBaseURL + "/oauth/authorize",
			TokenURL: TokenURL(cfg),
		},
	}
}

// GetStateToken returns the current CSRF state token for validation.
func GetStateToken() string {
	return stateToken
}
