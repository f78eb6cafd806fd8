//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of argx, printed by the version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories when the executable cannot be identified.
	Name = "argx"
	// Description is the one-line summary shown in help output.
	Description = "Expand argument templates into rows of bytes"
)

// AuthorInfo identifies one author of the project.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
