// Package provision runs the template materialization pipeline.
//
// An Orchestrator moves through a fixed sequence of states:
//
//	Idle -> Acquiring -> Pruning -> Renaming -> RewritingContent -> Done
//
// RegisteringRemote and Publishing are separate, caller-invoked stages
// that follow Done. Any fatal collaborator failure moves the orchestrator
// to Failed and leaves the tree on disk as the last stage left it; nothing
// is rolled back.
package provision
