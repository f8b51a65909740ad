package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface required for templar operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Mutations issued by the rewriter and pruner
	Rename(oldpath, newpath string) error
	Remove(name string) error

	// Lstat does not follow symlinks
	Lstat(name string) (fs.FileInfo, error)
}

// SourceControl is the version-control collaborator used to acquire a
// template and publish the finished project. Every failure is a
// command-level error; callers treat it as fatal to the current stage.
type SourceControl interface {
	Init(ctx context.Context, path string) error
	Clone(ctx context.Context, url, path string) error
	Checkout(ctx context.Context, branch string) error
	AddRemote(ctx context.Context, name, url string) error
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
}

// RepositoryRegistrar creates remote repository records
type RepositoryRegistrar interface {
	CreateRepository(ctx context.Context, name string) (*RepositoryDescriptor, error)
}
