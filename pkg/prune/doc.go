// Package prune deletes template scaffolding from a materialized tree.
//
// Both operations walk top-down and treat every deletion independently:
// a file that cannot be removed is logged and counted, and the walk moves
// on. Only precondition failures (missing root, empty target) are returned
// as errors.
package prune
