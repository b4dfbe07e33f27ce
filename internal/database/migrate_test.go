// Package database provides connection setup for MariaDB and Redis.
// This file validates migration SQL files to catch schema mismatches early.
package database

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// validLeapModes must match the values the calendar service accepts for
// calendars.leap_mode. Update this set together with the service validation.
var validLeapModes = map[string]bool{
	"none":      true,
	"gregorian": true,
	"custom":    true,
}

// validWorldTimeModes must match the values accepted for
// calendars.world_time_mode. The empty string means "not configured".
var validWorldTimeModes = map[string]bool{
	"":                true,
	"epoch-based":     true,
	"real-time-based": true,
}

// validIntercalaryPositions must match the values accepted for
// calendar_intercalary_days.position.
var validIntercalaryPositions = map[string]bool{
	"before": true,
	"after":  true,
}

// migrationsDir returns the absolute path to migrations/ from the project root.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	// thisFile is internal/database/migrate_test.go, project root is two dirs up.
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	dir := filepath.Join(projectRoot, "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s: %v", dir, err)
	}
	return dir
}

// TestMigrations_ModeDefaults scans all .up.sql migration files for DEFAULT
// values on the mode-like columns and validates them against the sets the
// service layer accepts. A typo here would make every freshly-created row
// fail service validation on read.
func TestMigrations_ModeDefaults(t *testing.T) {
	dir := migrationsDir(t)
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migration files found")
	}

	checks := []struct {
		column  string
		valid   map[string]bool
		pattern *regexp.Regexp
	}{
		{"leap_mode", validLeapModes, regexp.MustCompile(`leap_mode\s+VARCHAR\(\d+\)[^,]*DEFAULT\s+'([^']*)'`)},
		{"world_time_mode", validWorldTimeModes, regexp.MustCompile(`world_time_mode\s+VARCHAR\(\d+\)[^,]*DEFAULT\s+'([^']*)'`)},
		{"position", validIntercalaryPositions, regexp.MustCompile(`position\s+VARCHAR\(\d+\)[^,]*DEFAULT\s+'([^']*)'`)},
	}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}
		content := string(data)

		for _, check := range checks {
			matches := check.pattern.FindAllStringSubmatch(content, -1)
			for _, match := range matches {
				value := match[1]
				if !check.valid[value] {
					t.Errorf("%s: invalid default %q for column %s",
						filepath.Base(f), value, check.column)
				}
			}
		}
	}
}

// TestMigrations_ChildTablesCascade ensures every child table of calendars
// carries an ON DELETE CASCADE foreign key, so deleting a calendar cannot
// orphan sub-resource rows.
func TestMigrations_ChildTablesCascade(t *testing.T) {
	dir := migrationsDir(t)
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}

	childTables := []string{
		"calendar_months",
		"calendar_weekdays",
		"calendar_intercalary_days",
		"calendar_seasons",
		"calendar_solar_anchors",
	}

	var all strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}
		all.Write(data)
	}
	content := all.String()

	for _, table := range childTables {
		idx := strings.Index(content, "CREATE TABLE "+table)
		if idx < 0 {
			t.Errorf("no CREATE TABLE found for %s", table)
			continue
		}
		// The table body runs until the closing statement terminator.
		end := strings.Index(content[idx:], ";")
		if end < 0 {
			t.Fatalf("unterminated CREATE TABLE for %s", table)
		}
		body := content[idx : idx+end]
		if !strings.Contains(body, "ON DELETE CASCADE") {
			t.Errorf("%s: foreign key missing ON DELETE CASCADE", table)
		}
	}
}

// TestMigrations_UpDownPairs ensures every .up.sql has a matching .down.sql.
func TestMigrations_UpDownPairs(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}

	for _, up := range upFiles {
		down := strings.Replace(up, ".up.sql", ".down.sql", 1)
		if _, err := os.Stat(down); err != nil {
			t.Errorf("missing down migration for %s", filepath.Base(up))
		}
	}
}
