package usbid

import (
	"os"
	"path/filepath"
	"sync"
)

// PathEnv names the environment variable that overrides DefaultPaths for
// Default. It holds a list of paths separated by the OS path list separator.
const PathEnv = "USBID_PATH"

var defaultDB struct {
	once sync.Once
	db   *Database
	err  error
}

// Default returns the process-wide database, compiling it on first use from
// the paths in $USBID_PATH, or DefaultPaths when unset. The result, including
// any error, is cached for the lifetime of the process.
func Default() (*Database, error) {
	defaultDB.once.Do(func() {
		defaultDB.db, defaultDB.err = Open(searchPaths()...)
	})
	return defaultDB.db, defaultDB.err
}

func searchPaths() []string {
	if env := os.Getenv(PathEnv); env != "" {
		return filepath.SplitList(env)
	}
	return DefaultPaths
}
