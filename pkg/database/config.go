package database

import (
	"fmt"
	"strings"
)

// ParseDatabaseURL resolves the DATABASE_URL configuration knob into a
// database/sql driver name and DSN. Only the sqlite scheme is supported —
// a single-node deployment has no need for a networked database.
//
// Recognized forms (three slashes mean a cwd-relative path, four an
// absolute one, following the usual database-URL convention):
//   - "sqlite:///path.db"      -> file-backed database, relative to cwd
//   - "sqlite:////var/path.db" -> file-backed database, absolute
//   - "sqlite://:memory:"      -> in-memory database (tests)
//   - ""                       -> "sqlite:///travelroom.db"
func ParseDatabaseURL(raw string) (driverName, dsn string, err error) {
	if raw == "" {
		raw = "sqlite:///travelroom.db"
	}

	const scheme = "sqlite://"
	if !strings.HasPrefix(raw, scheme) {
		return "", "", fmt.Errorf("database: unsupported DATABASE_URL scheme in %q (only sqlite:// is supported)", raw)
	}

	path := strings.TrimPrefix(raw, scheme)
	if path == ":memory:" {
		return "sqlite3", ":memory:", nil
	}
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", "", fmt.Errorf("database: empty path in DATABASE_URL %q", raw)
	}
	return "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path), nil
}
