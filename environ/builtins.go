package environ

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/ardnew/mung"
)

// Target names an operating system and instruction set architecture.
type Target struct {
	OS   string
	Arch string
}

func (t Target) String() string { return t.Arch + "-" + t.OS }

// HostPlatform returns the host using Go naming ("amd64", "linux").
// GOHOSTOS/GOHOSTARCH, then GOOS/GOARCH, override the running values.
func HostPlatform() Target {
	return Target{
		OS:   firstEnv(runtime.GOOS, "GOHOSTOS", "GOOS"),
		Arch: firstEnv(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

// HostTarget returns the host using GNU toolchain naming ("x86_64").
func HostTarget() Target {
	t := HostPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	case "arm":
		if v, ok := os.LookupEnv("GOARM"); ok {
			v, _, _ = strings.Cut(v, ",")

			switch v = strings.TrimSpace(v); v {
			case "5", "6", "7":
				t.Arch = "armv" + v
			}
		}
	}

	return t
}

func firstEnv(fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
	}

	return fallback
}

// builtins returns the variables and functions visible to computed
// bindings. The env function reads from process, not the live environment.
func builtins(process map[string]string) map[string]any {
	hostname, _ := os.Hostname()

	return map[string]any{
		"env": func(key string) string {
			return process[key]
		},
		"target":   HostTarget().String(),
		"platform": HostPlatform().String(),
		"hostname": hostname,
		"shell":    process["SHELL"],
		"cwd":      workingDir,
		"file": map[string]any{
			"exists":    exists,
			"isDir":     statMode(func(m os.FileMode) bool { return m.IsDir() }, os.Stat),
			"isRegular": statMode(os.FileMode.IsRegular, os.Stat),
			"isSymlink": statMode(func(m os.FileMode) bool { return m&os.ModeSymlink != 0 }, os.Lstat),
		},
		"path": map[string]any{
			"abs": absPath,
			"cat": filepath.Join,
			"rel": relPath,
		},
		"mung": map[string]any{
			"prefix":   prefixList,
			"prefixif": prefixListIf,
		},
	}
}

// BuiltinNames returns the top-level names visible to computed bindings.
func BuiltinNames() []string {
	return sortedKeys(builtins(nil))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func workingDir() string {
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return absPath(".")
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func statMode(pred func(os.FileMode) bool, stat func(string) (os.FileInfo, error)) func(string) bool {
	return func(path string) bool {
		info, err := stat(path)

		return err == nil && pred(info.Mode())
	}
}

func absPath(path string) string {
	if p, err := filepath.Abs(path); err == nil {
		return p
	}

	return path
}

func relPath(from, to string) string {
	if p, err := filepath.Rel(absPath(from), absPath(to)); err == nil {
		return p
	}

	return filepath.Join(from, to)
}

// prefixList prepends items to a PATH-style list.
func prefixList(list string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}

// prefixListIf is prefixList keeping only the entries that satisfy keep.
func prefixListIf(list string, keep func(string) bool, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
		mung.WithFilter(keep),
	).String()
}
