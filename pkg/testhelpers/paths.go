package testhelpers

import (
	"path/filepath"
	"runtime"
)

// migrationsDir locates the repository's migrations directory relative to
// this source file, so integration tests work from any package directory.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
