package cli

import (
	"os"

	"github.com/ardnew/zyra/pkg"
)

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
