// Package testutil provides helpers for tests that work on real
// directory trees.
//
// Trees are described as maps from slash-separated relative paths to
// file contents. WriteTree materializes one in a fresh temporary
// directory; ReadTree and Files read it back so a whole tree can be
// compared with a single assertion.
package testutil
