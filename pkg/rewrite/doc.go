// Package rewrite implements the rename-and-rewrite engine applied to a
// materialized template tree.
//
// RenameTree walks bottom-up and renames files and directories whose name
// contains the placeholder. RewriteContents walks top-down and rewrites
// file contents in place. Both are substring based and both treat every
// entry independently: a failure is logged, counted, and the walk goes on.
package rewrite
