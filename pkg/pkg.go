// Package pkg holds project-wide identity and filesystem locations shared by
// the command-line front end.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text, in default
	// configuration paths and as the prefix of environment variables.
	Name = "zyra"
	// Description is the one-line summary shown in help output.
	Description = "Interpreter for the zyra scripting language"
	// SourceExt is the file extension of zyra source files.
	SourceExt = ".zy"
	// PathEnv names the environment variable listing extra directories
	// searched by import statements.
	PathEnv = "ZYRA_PATH"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
