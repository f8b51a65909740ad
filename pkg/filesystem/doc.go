// Package filesystem provides filesystem implementations for templar.
//
// This package contains implementations of the types.FS interface: the
// plain OS filesystem, an OS filesystem whose deletions run as synthfs
// operations, and a dry-run filesystem that logs mutations instead of
// performing them.
package filesystem
