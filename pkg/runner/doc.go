// Package runner executes external commands.
//
// ExecRunner starts one process and classifies how it ended. Executor
// layers a retry policy on top: a non-zero exit is retried with
// exponential backoff, while a process that never started or output that
// does not parse as a key/value document fails immediately.
package runner
