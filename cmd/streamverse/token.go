package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/streamverse/internal/config"
)

// TokenEnv overrides the saved session token.
const TokenEnv = "STREAMVERSE_TOKEN"

// tokenPath is where login stores the session token, next to the user config.
func tokenPath() string {
	return filepath.Join(filepath.Dir(config.DefaultPath()), "token")
}

// resolveToken picks the --token flag, then $STREAMVERSE_TOKEN, then the saved file.
func resolveToken() string {
	if tokenFlag != "" {
		return tokenFlag
	}
	if v := os.Getenv(TokenEnv); v != "" {
		return v
	}
	tok, _ := loadToken(tokenPath())
	return tok
}

func loadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0600)
}

// removeToken deletes the saved token. A missing file is not an error.
func removeToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
