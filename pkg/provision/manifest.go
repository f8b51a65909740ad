package provision

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/arthur-debert/templar/pkg/config"
	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// ManifestName is the optional file a template carries at its root to
// override its profile. It is pruned once read.
const ManifestName = ".templar.toml"

// Manifest holds template-side overrides. Absent keys keep the profile value.
type Manifest struct {
	Placeholder       *string  `toml:"placeholder"`
	Replacement       *string  `toml:"replacement"`
	PruneExtensions   []string `toml:"prune_extensions"`
	PruneFiles        []string `toml:"prune_files"`
	ContentExtensions []string `toml:"content_extensions"`
	SkipDirs          []string `toml:"skip_dirs"`
}

// ReadManifest loads root/.templar.toml. A missing file yields nil and no error.
func ReadManifest(fsys types.FS, root string) (*Manifest, error) {
	path := filepath.Join(root, ManifestName)
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read template manifest %s", path)
	}

	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid template manifest %s", path)
	}
	return &m, nil
}

// Apply returns t with the manifest's overrides
func (m *Manifest) Apply(t config.Template) config.Template {
	if m == nil {
		return t
	}
	if m.Placeholder != nil {
		t.Placeholder = *m.Placeholder
	}
	if m.Replacement != nil {
		t.Replacement = *m.Replacement
	}
	if m.PruneExtensions != nil {
		t.PruneExtensions = m.PruneExtensions
	}
	if m.PruneFiles != nil {
		t.PruneFiles = m.PruneFiles
	}
	if m.ContentExtensions != nil {
		t.ContentExtensions = m.ContentExtensions
	}
	if m.SkipDirs != nil {
		t.SkipDirs = m.SkipDirs
	}
	return t
}
