package rewrite

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/filesystem"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/arthur-debert/templar/pkg/walk"
	"github.com/rs/zerolog"
)

// Options configures a Rewriter
type Options struct {
	FS     types.FS
	Logger *zerolog.Logger
	// SkipDirs lists directory names the content pass never enters
	SkipDirs []string
	// Exclude lists directory names neither pass enters, such as the VCS directory
	Exclude []string
}

// Rewriter renames paths and rewrites file contents in a directory tree
type Rewriter struct {
	fs       types.FS
	logger   zerolog.Logger
	skipDirs []string
	exclude  []string
}

// RenameResult summarizes a rename pass
type RenameResult struct {
	Renamed int `json:"renamed"`
	Failed  int `json:"failed"`
}

// RewriteResult summarizes a content pass
type RewriteResult struct {
	Scanned   int `json:"scanned"`
	Rewritten int `json:"rewritten"`
	Failed    int `json:"failed"`
}

// New creates a rewriter
func New(opts Options) *Rewriter {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Rewriter{
		fs:       fsys,
		logger:   logging.OrDefault(opts.Logger, "rewrite"),
		skipDirs: append(append([]string{}, opts.SkipDirs...), opts.Exclude...),
		exclude:  opts.Exclude,
	}
}

// RenameTree replaces placeholder with replacement in the name of every
// file and directory below root. Children are always renamed before their
// parent directory.
func (r *Rewriter) RenameTree(root, placeholder, replacement string) (RenameResult, error) {
	var result RenameResult
	rule := types.SubstitutionRule{Old: placeholder, New: replacement}
	if err := rule.Validate(); err != nil {
		return result, err
	}
	if err := checkRoot(r.fs, root); err != nil {
		return result, err
	}

	done := logging.LogOperationStart(r.logger, "rename")
	defer done()

	walker := walk.New(walk.Options{FS: r.fs, Logger: &r.logger, Exclude: r.exclude})
	walker.Walk(root, walk.BottomUp, func(entry *walk.Entry) {
		for _, f := range entry.Files {
			r.renameEntry(entry.Dir, f.Name(), rule, "file", &result)
		}
		for _, d := range entry.Subdirs {
			r.renameEntry(entry.Dir, d.Name(), rule, "directory", &result)
		}
	})

	r.logger.Info().
		Str("root", root).
		Int("renamed", result.Renamed).
		Int("failed", result.Failed).
		Msg("Rename pass complete")
	return result, nil
}

func (r *Rewriter) renameEntry(dir, name string, rule types.SubstitutionRule, kind string, result *RenameResult) {
	if !rule.Contains(name) {
		return
	}

	newName := rule.Apply(name)
	if newName == name {
		return
	}
	oldPath := filepath.Join(dir, name)
	newPath := filepath.Join(dir, newName)

	if err := r.move(oldPath, newPath); err != nil {
		result.Failed++
		r.logger.Error().
			Err(err).
			Str("kind", kind).
			Str("from", oldPath).
			Str("to", newPath).
			Msg("Failed to rename")
		return
	}

	result.Renamed++
	r.logger.Info().
		Str("kind", kind).
		Str("from", oldPath).
		Str("to", newPath).
		Msg("Renamed")
}

// move refuses to replace an existing entry; os.Rename would silently
// overwrite a file on most platforms.
func (r *Rewriter) move(oldPath, newPath string) error {
	if _, err := r.fs.Lstat(newPath); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "destination already exists: %s", newPath)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect destination: %s", newPath)
	}

	if err := r.fs.Rename(oldPath, newPath); err != nil {
		return errors.Wrapf(err, errors.ErrFileRename, "rename %s", oldPath)
	}
	return nil
}

// RewriteContents replaces rule.Old with rule.New inside every selected
// file below root. Files without an occurrence are never written.
func (r *Rewriter) RewriteContents(root string, rule types.SubstitutionRule) (RewriteResult, error) {
	var result RewriteResult
	if err := rule.Validate(); err != nil {
		return result, err
	}
	if err := checkRoot(r.fs, root); err != nil {
		return result, err
	}

	done := logging.LogOperationStart(r.logger, "rewrite")
	defer done()

	walker := walk.New(walk.Options{FS: r.fs, Logger: &r.logger, Exclude: r.skipDirs})
	walker.Walk(root, walk.TopDown, func(entry *walk.Entry) {
		for _, f := range entry.Files {
			if !rule.Selects(f.Name()) {
				continue
			}
			if !f.Type().IsRegular() {
				r.logger.Debug().Str("path", filepath.Join(entry.Dir, f.Name())).Msg("Skipping non-regular file")
				continue
			}
			result.Scanned++
			r.rewriteFile(filepath.Join(entry.Dir, f.Name()), f, rule, &result)
		}
	})

	r.logger.Info().
		Str("root", root).
		Int("scanned", result.Scanned).
		Int("rewritten", result.Rewritten).
		Int("failed", result.Failed).
		Msg("Content pass complete")
	return result, nil
}

func (r *Rewriter) rewriteFile(path string, entry fs.DirEntry, rule types.SubstitutionRule, result *RewriteResult) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		result.Failed++
		r.logger.Error().Err(err).Str("path", path).Msg("Failed to read file")
		return
	}

	content := decode(data)
	if !rule.Contains(content) {
		return
	}

	updated := rule.Apply(content)
	if updated == content {
		return
	}

	perm := fs.FileMode(0644)
	if info, err := entry.Info(); err == nil {
		perm = info.Mode().Perm()
	}

	if err := r.fs.WriteFile(path, []byte(updated), perm); err != nil {
		result.Failed++
		r.logger.Error().
			Err(errors.Wrapf(err, errors.ErrFileWrite, "write %s", path)).
			Str("path", path).
			Msg("Failed to rewrite file")
		return
	}

	result.Rewritten++
	r.logger.Info().Str("path", path).Msg("Replaced content")
}

// decode reads data as UTF-8 text, dropping byte sequences that do not decode
func decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func checkRoot(fsys types.FS, root string) error {
	info, err := fsys.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrNotFound, "root directory not found: %s", root).
			WithDetail("root", root)
	}
	return nil
}
