// Package collect turns source path arguments into the canonical,
// ordered entry list for a single archive build.
//
// Sources are processed in argument order; within each directory the
// walk is depth-first and lexicographic, so repeated runs over an
// unmodified tree produce identical entry ordering. Archive paths use
// forward slashes on every host platform.
package collect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Folders excluded when ignore-windows-volume-folders is active.
// These normally only exist in the root of a drive.
var windowsVolumeFolders = map[string]struct{}{
	"System Volume Information": {},
	"$RECYCLE.BIN":              {},
}

var (
	// ErrSourceNotFound indicates a source argument that is neither a
	// file nor a directory
	ErrSourceNotFound = errors.New("source not found")

	// ErrNameCollision indicates two sources mapping to the same
	// archive entry name
	ErrNameCollision = errors.New("archive name collision")
)

// Entry pairs a file on disk with the name it will carry inside the archive
type Entry struct {
	// AbsolutePath is the resolved filesystem location of the file
	AbsolutePath string

	// ArchivePath is the forward-slash relative name the file will
	// have inside the zip
	ArchivePath string

	// Source is the top-level source argument this file was collected
	// under, as given by the caller
	Source string

	// Size in bytes at collection time, used for progress reporting
	Size int64
}

// Options control which paths are collected and how they are named
type Options struct {
	// Prune any file or folder whose name begins with '.', including
	// its entire subtree
	IgnoreDotfiles bool

	// Prune 'System Volume Information' and '$RECYCLE.BIN' subtrees
	IgnoreWindowsVolumeFolders bool

	// RootDir, when non-empty, nests every archive path under one
	// shared parent folder of that name
	RootDir string
}

// Collect walks the given source paths and returns the entry list for
// one archive build. A missing source or an archive path collision
// fails the whole job before any archive writing can begin.
func Collect(sources []string, opts Options) ([]Entry, error) {
	var entries []Entry
	seen := make(map[string]string)

	for _, source := range sources {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path '%s': %w", source, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s'", ErrSourceNotFound, source)
		}

		if !info.IsDir() {
			entry := Entry{
				AbsolutePath: abs,
				ArchivePath:  opts.archivePath(filepath.Base(abs)),
				Source:       source,
				Size:         info.Size(),
			}

			if err := record(seen, entry); err != nil {
				return nil, err
			}

			entries = append(entries, entry)

			continue
		}

		dirEntries, err := collectDir(abs, opts)
		if err != nil {
			return nil, err
		}

		for i := range dirEntries {
			dirEntries[i].Source = source

			if err := record(seen, dirEntries[i]); err != nil {
				return nil, err
			}
		}

		entries = append(entries, dirEntries...)
	}

	return entries, nil
}

// TotalSize sums the collected sizes of the given entries
func TotalSize(entries []Entry) int64 {
	var total int64
	for _, entry := range entries {
		total += entry.Size
	}

	return total
}

// collectDir walks one source directory depth-first. filepath.WalkDir
// visits directory contents in lexical order, which gives the
// deterministic ordering the build and verification phases rely on.
func collectDir(root string, opts Options) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("cannot access '%s': %w", path, err)
		}

		if path != root && pruned(d, opts) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("cannot access '%s': %w", path, err)
		}

		entries = append(entries, Entry{
			AbsolutePath: path,
			ArchivePath:  opts.archivePath(filepath.ToSlash(rel)),
			Size:         info.Size(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// pruned reports whether a walked file or folder is excluded by the
// active options. Excluded folders are skipped with their whole subtree.
func pruned(d fs.DirEntry, opts Options) bool {
	if opts.IgnoreDotfiles && strings.HasPrefix(d.Name(), ".") {
		return true
	}

	if opts.IgnoreWindowsVolumeFolders && d.IsDir() {
		if _, excluded := windowsVolumeFolders[d.Name()]; excluded {
			return true
		}
	}

	return false
}

// record registers an entry's archive path, failing on duplicates
func record(seen map[string]string, entry Entry) error {
	if previous, ok := seen[entry.ArchivePath]; ok {
		return fmt.Errorf("%w: '%s' and '%s' both map to '%s'",
			ErrNameCollision, previous, entry.AbsolutePath, entry.ArchivePath)
	}

	seen[entry.ArchivePath] = entry.AbsolutePath

	return nil
}

func (o Options) archivePath(rel string) string {
	if o.RootDir == "" {
		return rel
	}

	return o.RootDir + "/" + rel
}
