package environ

import (
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/argx/lang"
)

// ErrLoad is returned when a bindings file cannot be read or decoded.
var ErrLoad = ErrBinding.Kind("failed to load bindings")

// File is the content of a bindings file:
//
//	vars:
//	  PREFIX: /usr/local
//	exprs:
//	  JOBS: 'platform == "amd64-linux" ? "8" : "2"'
//	  BIN: path.cat(env("HOME"), "bin")
type File struct {
	Vars  map[string]string `yaml:"vars"`
	Exprs map[string]string `yaml:"exprs"`
}

// Load decodes a bindings file from r. Unknown top-level keys are errors.
func Load(r io.Reader) (File, error) {
	var f File

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return File{}, ErrLoad.Wrap(err)
	}

	return f, nil
}

// LoadFile decodes the bindings file at path.
func LoadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, ErrLoad.Wrap(err).With(slog.String("path", path))
	}

	defer fh.Close()

	f, err := Load(fh)
	if err != nil {
		return File{}, lang.WrapError(err).With(slog.String("path", path))
	}

	return f, nil
}
