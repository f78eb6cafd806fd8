package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/argx/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the permission mode for created directories.
//
//nolint:gochecknoglobals
var defaultDirMode os.FileMode = 0o700

// configPath returns the path formed by joining elem to the configuration
// directory. With no elements it is the directory itself.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// cacheDir returns the directory used for transient files.
func cacheDir() string { return pkg.CacheDir() }

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
