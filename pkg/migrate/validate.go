package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir for a well-formed versioned
// filename, a unique version, and the goose Up/Down markers.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if err := validateFile(dir, name, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateFile(dir, name string, seen map[string]string) error {
	m := sqlFileRe.FindStringSubmatch(name)
	if m == nil {
		return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
	}

	version := m[1]
	if prev, ok := seen[version]; ok {
		return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
	}
	seen[version] = name

	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read file %q: %w", name, err)
	}
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(b), marker) {
			return fmt.Errorf("migration %q missing %q", name, marker)
		}
	}
	return nil
}
