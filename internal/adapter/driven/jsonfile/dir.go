// Package jsonfile implements the persistence ports as JSON documents in a
// single configuration directory.
package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Document file names inside the configuration directory.
const (
	settingsFile    = "config.json"
	credentialsFile = "credentials.json"
	licensesFile    = "licenses.json"
)

// Dir is the configuration directory shared by every repo in this package.
// It is created with mode 0700 because it holds secrets.
type Dir struct {
	root string
}

// NewDir creates root if needed and returns a Dir rooted there.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("open config dir: empty path")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory path.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.root, name)
}
