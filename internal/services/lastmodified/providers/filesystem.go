// Package providers holds the built-in last modified providers
package providers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/logger"
	"bgg/internal/services/lastmodified/domain"
)

// Built-in provider names
const (
	NameFilesystem = "filesystem"
	NameDatabase   = "database"
)

// Filesystem reports the newest file mtime under a base directory and a set of trees
// the base directory is read flat; each included directory is walked recursively,
// skipping dot entries and following symlinked directories once
type Filesystem struct {
	base     string
	included []string
	log      *logger.Logger
}

// NewFilesystem checks that base and every included path is a directory
func NewFilesystem(base string, included ...string) (*Filesystem, error) {
	if err := isDir(base); err != nil {
		return nil, perr.WithField(perr.InvalidConfigf("base path [%s] is not a valid directory", base), "base_path")
	}
	for _, dir := range included {
		if err := isDir(dir); err != nil {
			return nil, perr.WithField(perr.InvalidConfigf("directory [%s] is not a valid directory", dir), "included_dirs")
		}
	}
	return &Filesystem{
		base:     base,
		included: append([]string(nil), included...),
		log:      logger.Named("lastmodified.filesystem"),
	}, nil
}

func isDir(p string) error {
	if p == "" {
		return os.ErrNotExist
	}
	fi, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return os.ErrInvalid
	}
	return nil
}

// LastModified satisfies domain.Provider; NoSignal when no file was found
func (f *Filesystem) LastModified(ctx context.Context) int64 {
	ts := f.flat(f.base)
	for _, dir := range f.included {
		if ctx.Err() != nil {
			break
		}
		w := walker{ctx: ctx, seen: map[string]struct{}{}, latest: domain.NoSignal, log: f.log}
		w.walk(dir)
		ts = max(ts, w.latest)
	}
	return ts
}

// flat scans the immediate files of dir
func (f *Filesystem) flat(dir string) int64 {
	ts := domain.NoSignal
	entries, err := os.ReadDir(dir)
	if err != nil {
		f.log.Debug().Err(err).Str("dir", dir).Msg("read base dir failed")
		return ts
	}
	for _, e := range entries {
		fi, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || fi.IsDir() {
			continue
		}
		ts = max(ts, fi.ModTime().Unix())
	}
	return ts
}

type walker struct {
	ctx    context.Context
	seen   map[string]struct{}
	latest int64
	log    *logger.Logger
}

func (w *walker) walk(dir string) {
	if w.ctx.Err() != nil {
		return
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return
	}
	if _, ok := w.seen[resolved]; ok {
		return
	}
	w.seen[resolved] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.Debug().Err(err).Str("dir", dir).Msg("read dir failed")
		return
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		// Stat follows symlinks; a dangling link is skipped
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if fi.IsDir() {
			w.walk(p)
			continue
		}
		w.latest = max(w.latest, fi.ModTime().Unix())
	}
}
