package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteTree creates a temporary directory holding files and returns its path.
// The directory is automatically cleaned up when the test completes.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteFiles(t, root, files)
	return root
}

// WriteFiles writes files below root, creating parent directories as needed.
// It fails the test if any file cannot be created.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create parent directories for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", path, err)
		}
	}
}

// ReadTree returns the contents of every file below root keyed by its
// slash-separated relative path
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	walk(t, root, func(rel string, d fs.DirEntry) {
		if d.IsDir() {
			return
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", rel, err)
		}
		out[rel] = string(data)
	})
	return out
}

// Files lists the files below root, sorted
func Files(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	walk(t, root, func(rel string, d fs.DirEntry) {
		if !d.IsDir() {
			files = append(files, rel)
		}
	})
	sort.Strings(files)
	return files
}

// Paths lists every file and directory below root, sorted. Root itself is "."
func Paths(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	walk(t, root, func(rel string, d fs.DirEntry) {
		paths = append(paths, rel)
	})
	sort.Strings(paths)
	return paths
}

// CreateSymlink creates a symbolic link pointing to target.
// It fails the test if the symlink cannot be created.
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		t.Fatalf("Failed to create parent directory for symlink %s: %v", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink %s -> %s: %v", link, target, err)
	}
}

func walk(t *testing.T, root string, fn func(rel string, d fs.DirEntry)) {
	t.Helper()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fn(filepath.ToSlash(rel), d)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk %s: %v", root, err)
	}
}
