package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// exeRules rewrite the executable base name before it is used as Prefix.
//
//nolint:gochecknoglobals
var exeRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), Name}, // dlv output
	{regexp.MustCompile(`^\.+`), ""},
}

// Prefix returns the name used for the configuration and cache directories.
//
// It is the base name of the running executable, without extension, after
// exeRules are applied. An empty result falls back to Name.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	return prefixOf(executable())
})

func executable() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}

	return os.Args[0]
}

func prefixOf(path string) string {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	for _, rule := range exeRules {
		id = rule.rex.ReplaceAllString(id, rule.rep)
	}

	if id == "" || id == "." || id == string(filepath.Separator) {
		return Name
	}

	return id
}

// ConfigDir returns the directory holding config.yaml.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory for transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir joins Prefix to the directory reported by base. When base fails
// it tries $HOME/fallback, then the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
