package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var pepper struct {
	sync.RWMutex
	value string
}

// LoadPepper reads the pepper mixed into every password hash from path,
// creating the file with a fresh random value on first start. The file must
// survive restarts or every stored hash stops verifying.
func LoadPepper(path string) error {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		SetPepper(strings.TrimSpace(string(raw)))
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("cryptox: generate pepper: %w", err)
	}
	value := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
		return fmt.Errorf("cryptox: write pepper: %w", err)
	}
	SetPepper(value)
	return nil
}

// SetPepper replaces the in-memory pepper.
func SetPepper(v string) {
	pepper.Lock()
	pepper.value = v
	pepper.Unlock()
}

func currentPepper() string {
	pepper.RLock()
	defer pepper.RUnlock()
	return pepper.value
}
