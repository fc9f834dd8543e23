package handlers

import (
	"net/http"

	"github.com/booksbridge/books-bridge/internal/auth/token"
)

// SessionResetHandler clears the stored credential so the next call
// requires reconnecting through the login flow.
func SessionResetHandler(store *token.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear()
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
