package filesystem

import (
	"io/fs"

	"github.com/arthur-debert/templar/pkg/types"
	"github.com/rs/zerolog"
)

// DryRunFS forwards reads to a base filesystem and only logs mutations
type DryRunFS struct {
	base   types.FS
	logger zerolog.Logger

	Renames int
	Writes  int
	Removes int
}

// NewDryRun wraps base so that no mutation reaches the disk
func NewDryRun(base types.FS, logger zerolog.Logger) *DryRunFS {
	return &DryRunFS{base: base, logger: logger}
}

func (d *DryRunFS) Stat(name string) (fs.FileInfo, error) {
	return d.base.Stat(name)
}

func (d *DryRunFS) Lstat(name string) (fs.FileInfo, error) {
	return d.base.Lstat(name)
}

func (d *DryRunFS) ReadFile(name string) ([]byte, error) {
	return d.base.ReadFile(name)
}

func (d *DryRunFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return d.base.ReadDir(name)
}

func (d *DryRunFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	d.Writes++
	d.logger.Info().Str("path", name).Int("bytes", len(data)).Msg("Dry run - would write file")
	return nil
}

func (d *DryRunFS) MkdirAll(path string, perm fs.FileMode) error {
	d.logger.Info().Str("path", path).Msg("Dry run - would create directory")
	return nil
}

func (d *DryRunFS) Rename(oldpath, newpath string) error {
	d.Renames++
	d.logger.Info().Str("from", oldpath).Str("to", newpath).Msg("Dry run - would rename")
	return nil
}

func (d *DryRunFS) Remove(name string) error {
	d.Removes++
	d.logger.Info().Str("path", name).Msg("Dry run - would remove")
	return nil
}
