package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoAuthState reports that no persisted session exists on this device.
var ErrNoAuthState = errors.New("no saved session; run login first")

type authState struct {
	User User `json:"user"`
}

// DefaultAuthStatePath is where CLI invocations share one signed-in session.
func DefaultAuthStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ojt-tracker", "auth-state.json"), nil
}

// SaveAuthState persists the signed-in user for later invocations.
func SaveAuthState(path string, user User) error {
	path = strings.TrimSpace(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create auth state directory: %w", err)
	}

	content, err := json.MarshalIndent(authState{User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode auth state: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write auth state file: %w", err)
	}
	return nil
}

// LoadAuthState reads the persisted session. A missing file is ErrNoAuthState.
func LoadAuthState(path string) (User, error) {
	content, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return User{}, ErrNoAuthState
		}
		return User{}, fmt.Errorf("read auth state file: %w", err)
	}

	var state authState
	if err := json.Unmarshal(content, &state); err != nil {
		return User{}, fmt.Errorf("decode auth state file: %w", err)
	}
	if state.User.ID == "" {
		return User{}, ErrNoAuthState
	}
	return state.User, nil
}

// ClearAuthState removes the persisted session. Already-absent is fine.
func ClearAuthState(path string) error {
	err := os.Remove(strings.TrimSpace(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove auth state file: %w", err)
	}
	return nil
}
