package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// MigrationFile describes a generated up/down migration pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down migration pair. Versions are
// sequential six-digit numbers continuing from the highest one already in
// the directory, matching the numbering of the shipped schema migrations.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version, err := nextVersion(migrationsDir)
	if err != nil {
		return nil, err
	}

	baseName := fmt.Sprintf("%s_%s", version, sanitizeName(name))
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		UpPath:      filepath.Join(migrationsDir, baseName+".up.sql"),
		DownPath:    filepath.Join(migrationsDir, baseName+".down.sql"),
	}

	created := time.Now().Format(time.RFC3339)
	upHeader := fmt.Sprintf("-- %s\n-- Created: %s\n-- %s\n\n", mf.Name, created, mf.Description)
	downHeader := fmt.Sprintf("-- %s (rollback)\n-- Created: %s\n\n", mf.Name, created)

	if err := os.WriteFile(mf.UpPath, []byte(upHeader), 0644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(mf.DownPath, []byte(downHeader), 0644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return mf, nil
}

// nextVersion returns the six-digit version following the highest existing
// one, or 000001 for an empty directory
func nextVersion(migrationsDir string) (string, error) {
	existing, err := ListMigrations(migrationsDir)
	if err != nil {
		return "", err
	}

	highest := 0
	for _, base := range existing {
		prefix, _, found := strings.Cut(base, "_")
		if !found {
			continue
		}
		if n, err := strconv.Atoi(prefix); err == nil && n > highest {
			highest = n
		}
	}

	return fmt.Sprintf("%06d", highest+1), nil
}

// sanitizeName lowercases the migration name and joins words with single
// underscores so it forms a safe file name
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	if len(result) > 0 && result[len(result)-1] == '_' {
		result = result[:len(result)-1]
	}
	return string(result)
}

// ListMigrations returns the base names of all migration pairs in the
// directory, identified by their .up.sql half
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, found := strings.CutSuffix(entry.Name(), ".up.sql"); found {
			migrations = append(migrations, base)
		}
	}

	return migrations, nil
}
