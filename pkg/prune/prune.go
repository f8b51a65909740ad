package prune

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/filesystem"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/arthur-debert/templar/pkg/walk"
	"github.com/rs/zerolog"
)

// DefaultVCSDir is the version-control metadata directory RemoveByExactName never enters
const DefaultVCSDir = ".git"

// Options configures a Pruner
type Options struct {
	FS     types.FS
	Logger *zerolog.Logger
	// VCSDir overrides DefaultVCSDir
	VCSDir string
}

// Pruner removes files from a directory tree
type Pruner struct {
	fs     types.FS
	logger zerolog.Logger
	vcsDir string
}

// Result summarizes one removal pass
type Result struct {
	Scanned int
	Removed int
	Failed  int
}

// New creates a pruner. Deletions go through synthfs unless an FS is given.
func New(opts Options) *Pruner {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewSynthfs()
	}
	vcsDir := opts.VCSDir
	if vcsDir == "" {
		vcsDir = DefaultVCSDir
	}
	return &Pruner{
		fs:     fsys,
		logger: logging.OrDefault(opts.Logger, "prune"),
		vcsDir: vcsDir,
	}
}

// RemoveByExtension deletes every file below root whose name ends with ext
func (p *Pruner) RemoveByExtension(root, ext string) (Result, error) {
	var result Result
	if ext == "" {
		return result, errors.New(errors.ErrInvalidInput, "extension cannot be empty")
	}
	if err := checkRoot(p.fs, root); err != nil {
		return result, err
	}

	walker := walk.New(walk.Options{FS: p.fs, Logger: &p.logger})
	walker.Walk(root, walk.TopDown, func(entry *walk.Entry) {
		for _, f := range entry.Files {
			result.Scanned++
			if strings.HasSuffix(f.Name(), ext) {
				p.remove(filepath.Join(entry.Dir, f.Name()), &result)
			}
		}
	})

	p.logger.Info().
		Str("root", root).
		Str("extension", ext).
		Int("scanned", result.Scanned).
		Int("removed", result.Removed).
		Int("failed", result.Failed).
		Msg("Removal by extension complete")
	return result, nil
}

// RemoveByExactName deletes every file below root named exactly name and
// returns how many were removed. The VCS metadata directory is skipped.
func (p *Pruner) RemoveByExactName(root, name string) (int, error) {
	result, err := p.RemoveNamed(root, name)
	return result.Removed, err
}

// RemoveNamed is RemoveByExactName reporting failed removals as well
func (p *Pruner) RemoveNamed(root, name string) (Result, error) {
	var result Result
	p.logger.Debug().Str("root", root).Str("name", name).Msg("Searching for file to remove")

	if err := checkRoot(p.fs, root); err != nil {
		return result, err
	}
	if strings.TrimSpace(name) == "" {
		return result, errors.New(errors.ErrInvalidInput, "file name to remove cannot be empty")
	}

	walker := walk.New(walk.Options{FS: p.fs, Logger: &p.logger})
	walker.Walk(root, walk.TopDown, func(entry *walk.Entry) {
		if entry.Prune(p.vcsDir) {
			p.logger.Debug().Str("dir", entry.Dir).Str("vcsDir", p.vcsDir).Msg("Skipping version control directory")
		}

		for _, d := range entry.Subdirs {
			if d.Name() == name {
				p.logger.Warn().
					Str("path", filepath.Join(entry.Dir, d.Name())).
					Msg("A directory has the same name as the target file, skipping")
			}
		}

		for _, f := range entry.Files {
			result.Scanned++
			if f.Name() == name {
				p.remove(filepath.Join(entry.Dir, f.Name()), &result)
			}
		}
	})

	event := p.logger.Info().
		Str("root", root).
		Str("name", name).
		Int("scanned", result.Scanned).
		Int("removed", result.Removed).
		Int("failed", result.Failed)
	if result.Removed > 0 {
		event.Msg("Removal by name complete")
	} else {
		event.Msg("Removal by name complete, no matching file found")
	}
	return result, nil
}

func (p *Pruner) remove(path string, result *Result) {
	if err := p.fs.Remove(path); err != nil {
		result.Failed++
		p.logger.Error().
			Err(errors.Wrapf(err, errors.ErrFileRemove, "remove %s", path)).
			Str("path", path).
			Msg("Failed to remove file")
		return
	}
	result.Removed++
	p.logger.Info().Str("path", path).Msg("Removed file")
}

func checkRoot(fsys types.FS, root string) error {
	info, err := fsys.Stat(root)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrNotFound, "root directory not found: %s", root).
			WithDetail("root", root)
	}
	return nil
}
