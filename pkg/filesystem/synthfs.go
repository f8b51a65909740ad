package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	sfsfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/rs/zerolog"
)

// synthFS reads through the OS and routes deletions through a synthfs
// pipeline. Each removal is its own pipeline so one failure never blocks
// the next one.
type synthFS struct {
	osFS
	logger     zerolog.Logger
	filesystem sfsfs.FullFileSystem
	seq        atomic.Uint64
}

// NewSynthfs creates an OS filesystem whose Remove runs as a synthfs operation
func NewSynthfs() types.FS {
	osfs := sfsfs.NewOSFileSystem("/")
	return &synthFS{
		logger:     logging.GetLogger("filesystem.synthfs"),
		filesystem: synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths(),
	}
}

func (s *synthFS) Remove(name string) error {
	target, err := filepath.Abs(name)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve path: %s", name)
	}

	sfs := synthfs.New()
	id := fmt.Sprintf("remove_%s_%d", filepath.Base(target), s.seq.Add(1))
	op := sfs.CustomOperationWithID(id, func(ctx context.Context, fs sfsfs.FileSystem) error {
		return fs.Remove(target)
	})

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	s.logger.Trace().Str("path", target).Str("operationID", id).Msg("Running synthfs remove")
	if _, err := synthfs.RunWithOptions(context.Background(), s.filesystem, options, op); err != nil {
		return err
	}
	return nil
}
