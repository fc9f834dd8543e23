package token

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/booksbridge/books-bridge/internal/db"
	"gorm.io/gorm"
)

// credentialKey is the config table key the credential is persisted under.
const credentialKey = "freshbooks_credential"

// Credential is the token triple issued by the upstream OAuth server.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // epoch seconds
}

// Store holds the process-wide credential in memory and mirrors it to the
// config table. Mutation happens inside the Coordinator's refresh flight or
// through the OAuth callback; the mutex only protects the in-memory copy.
type Store struct {
	mu       sync.RWMutex
	cred     Credential
	database *gorm.DB
}

// NewStore creates a Store and loads any persisted credential.
func NewStore(database *gorm.DB) *Store {
	s := &Store{database: database}
	if raw := db.GetValue(database, credentialKey); raw != "" {
		var cred Credential
		if err := json.Unmarshal([]byte(raw), &cred); err != nil {
			log.Printf("⚠️ Ignoring unreadable persisted credential: %v", err)
		} else {
			s.cred = cred
			log.Printf("📦 Loaded persisted credential (expires_at=%d)", cred.ExpiresAt)
		}
	}
	return s
}

// Get returns the current credential.
func (s *Store) Get() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// Set replaces the credential and persists it. Persistence failures are
// logged and swallowed; the in-memory update always wins.
func (s *Store) Set(cred Credential) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()

	raw, err := json.Marshal(cred)
	if err != nil {
		log.Printf("⚠️ Failed to encode credential for persistence: %v", err)
		return
	}
	if err := db.SetValue(s.database, credentialKey, string(raw)); err != nil {
		log.Printf("⚠️ Failed to persist credential: %v", err)
	}
}

// Clear drops the credential from memory and from the config table.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cred = Credential{}
	s.mu.Unlock()

	if err := db.DeleteValue(s.database, credentialKey); err != nil {
		log.Printf("⚠️ Failed to delete persisted credential: %v", err)
	}
	log.Printf("🔒 Session reset, credential cleared")
}

// Connected reports whether any credential is present.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken != "" || s.cred.RefreshToken != ""
}
