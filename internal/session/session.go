// Package session manages the durable, anonymous, device-local identity
// token used as the sole key to resolve a cart across visits.
//
// The token lives as the entire content of one file under a fixed name in
// the profile directory. It is written once on first use and read
// thereafter; nothing in the process ever rewrites a valid token.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// identityFile is the fixed key the token is stored under. Not namespaced
// per cart: one identity per profile directory.
const identityFile = "session_id"

// Store resolves the session identity from a profile directory.
type Store struct {
	dir string
}

// Open prepares a session store rooted at dir, creating the directory if
// needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Identity returns the device-local session token, creating and persisting
// one on first use. A missing or empty slot regenerates; an existing token
// is returned as-is, indefinitely.
func (s *Store) Identity() (string, error) {
	path := filepath.Join(s.dir, identityFile)

	data, err := os.ReadFile(path)
	if err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
		// Empty slot: fall through and regenerate.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read session identity: %w", err)
	}

	token := newToken()
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist session identity: %w", err)
	}
	return token, nil
}

// newToken generates a fresh identity. UUIDv7 keeps tokens time-sortable,
// which helps when eyeballing store rows.
func newToken() string {
	return "session_" + uuid.Must(uuid.NewV7()).String()
}
