package walk

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/rs/zerolog"
)

// Mode selects the order in which directories are visited
type Mode int

const (
	// TopDown visits a directory before its subdirectories
	TopDown Mode = iota
	// BottomUp visits every subdirectory before its parent
	BottomUp
)

func (m Mode) String() string {
	switch m {
	case TopDown:
		return "top-down"
	case BottomUp:
		return "bottom-up"
	default:
		return "unknown"
	}
}

// Entry is one visited directory and its listing. The listing is taken
// once, when the walk first enters Dir.
type Entry struct {
	Dir     string
	Subdirs []fs.DirEntry
	Files   []fs.DirEntry
}

// Prune drops the named subdirectory from the entry. In TopDown mode the
// walk will not descend into it.
func (e *Entry) Prune(name string) bool {
	for i, d := range e.Subdirs {
		if d.Name() == name {
			e.Subdirs = append(e.Subdirs[:i], e.Subdirs[i+1:]...)
			return true
		}
	}
	return false
}

// Visitor is called once per directory. Per-entry failures are the
// visitor's to log; nothing it does can stop the walk.
type Visitor func(entry *Entry)

// Options configures a Walker
type Options struct {
	FS     types.FS
	Logger *zerolog.Logger
	// Exclude lists directory names that are neither descended into nor reported
	Exclude []string
}

// Walker walks directory trees through a types.FS
type Walker struct {
	fs      types.FS
	logger  zerolog.Logger
	exclude map[string]bool
}

// New creates a walker
func New(opts Options) *Walker {
	exclude := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = true
	}
	return &Walker{
		fs:      opts.FS,
		logger:  logging.OrDefault(opts.Logger, "walk"),
		exclude: exclude,
	}
}

// Walk visits root and everything below it in the given mode
func (w *Walker) Walk(root string, mode Mode, visit Visitor) {
	w.logger.Trace().Str("root", root).Str("mode", mode.String()).Msg("Starting walk")
	switch mode {
	case BottomUp:
		w.bottomUp(root, visit)
	default:
		w.topDown(root, visit)
	}
}

func (w *Walker) topDown(dir string, visit Visitor) {
	entry, ok := w.list(dir)
	if !ok {
		return
	}
	visit(entry)
	for _, sub := range entry.Subdirs {
		w.topDown(filepath.Join(dir, sub.Name()), visit)
	}
}

func (w *Walker) bottomUp(dir string, visit Visitor) {
	entry, ok := w.list(dir)
	if !ok {
		return
	}
	for _, sub := range entry.Subdirs {
		w.bottomUp(filepath.Join(dir, sub.Name()), visit)
	}
	visit(entry)
}

func (w *Walker) list(dir string) (*Entry, bool) {
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		w.logger.Error().Err(err).Str("dir", dir).Msg("Failed to list directory, skipping")
		return nil, false
	}

	entry := &Entry{Dir: dir}
	for _, e := range entries {
		if e.IsDir() {
			if w.exclude[e.Name()] {
				w.logger.Debug().Str("dir", dir).Str("name", e.Name()).Msg("Skipping excluded directory")
				continue
			}
			entry.Subdirs = append(entry.Subdirs, e)
			continue
		}
		entry.Files = append(entry.Files, e)
	}
	return entry, true
}
