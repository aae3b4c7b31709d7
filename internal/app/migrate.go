package app

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// MigrateCache copies the legacy component cache from -> to. It does
// nothing when to exists or from is missing. Mode bits, modification times
// and symlinks are preserved. Failures are logged, never returned; a
// partial copy is left in place.
func MigrateCache(log zerolog.Logger, from, to string) {
	if _, err := os.Lstat(to); err == nil {
		return
	}
	info, err := os.Stat(from)
	if err != nil || !info.IsDir() {
		return
	}

	log.Info().Str("from", from).Str("to", to).Msg("migrating component cache")
	if err := copyTree(from, to); err != nil {
		log.Warn().Err(err).Str("from", from).Str("to", to).Msg("unable to copy component cache")
	}
}

type dirAttrs struct {
	path  string
	mode  fs.FileMode
	mtime time.Time
}

func copyTree(from, to string) error {
	var dirs []dirAttrs
	err := filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(to, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(target, dest)
		case info.IsDir():
			// Owner write is kept until the contents are copied.
			if err := os.MkdirAll(dest, info.Mode().Perm()|0700); err != nil {
				return err
			}
			dirs = append(dirs, dirAttrs{path: dest, mode: info.Mode().Perm(), mtime: info.ModTime()})
			return nil
		case info.Mode().IsRegular():
			return copyFile(path, dest, info)
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}

	// Children first, so restoring a parent's mtime is not undone.
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if err := os.Chmod(d.path, d.mode); err != nil {
			return err
		}
		if err := os.Chtimes(d.path, d.mtime, d.mtime); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
