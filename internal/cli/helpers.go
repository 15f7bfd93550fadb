package cli

import (
	"fmt"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/monarkh/site/internal/store"
)

// withStore opens the database, executes the function, and handles cleanup.
func withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

// getTokenFilePath returns the path to the token file
func getTokenFilePath() string {
	// Store token file alongside the database
	return filepath.Join(filepath.Dir(dbPath), ".monarkh-token")
}

var printer = message.NewPrinter(language.English)

// formatNumber formats a number with thousand separators
func formatNumber(n int) string {
	return printer.Sprintf("%d", n)
}
