package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name used for the configuration and cache
// directories. It is the executable's name with any extension removed,
// except that debugger builds ("__debug_bin123") map to [Name] and leading
// dots are stripped.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	return normalizePrefix(id)
})

var (
	debugBin    = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

func normalizePrefix(id string) string {
	id = debugBin.ReplaceAllString(id, Name)
	id = leadingDots.ReplaceAllString(id, "")

	if id == "" {
		return Name
	}

	return id
}

// userDir resolves a per-user base directory, falling back to a dot
// directory under $HOME and finally to the working directory.
func userDir(base func() (string, error), dot string) string {
	dir, err := base()
	if err == nil {
		return filepath.Join(dir, Prefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, dot, Prefix())
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "."+Prefix())
	}

	return "." + Prefix()
}

// ConfigDir returns the directory holding the configuration file.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory holding transient files such as REPL
// history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// ConfigFile returns the default configuration file path.
func ConfigFile() string { return filepath.Join(ConfigDir(), "config.yaml") }

// HistoryFile returns the default REPL history file path.
func HistoryFile() string { return filepath.Join(CacheDir(), "history") }
