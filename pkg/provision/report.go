package provision

import (
	"time"

	"github.com/arthur-debert/templar/pkg/rewrite"
	"github.com/arthur-debert/templar/pkg/types"
)

// PruneKind tells how a prune target was matched
type PruneKind string

const (
	PruneByExtension PruneKind = "extension"
	PruneByName      PruneKind = "name"
)

// PruneOutcome is the result of one prune call
type PruneOutcome struct {
	Kind    PruneKind `json:"kind"`
	Target  string    `json:"target"`
	Removed int       `json:"removed"`
	Failed  int       `json:"failed,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Planned counts the mutations a dry run skipped
type Planned struct {
	Renames int `json:"renames"`
	Writes  int `json:"writes"`
	Removes int `json:"removes"`
}

// Report describes one provisioning run
type Report struct {
	ProjectName string                      `json:"project"`
	Template    string                      `json:"template"`
	TargetDir   string                      `json:"targetDir"`
	Placeholder string                      `json:"placeholder"`
	Replacement string                      `json:"replacement"`
	DryRun      bool                        `json:"dryRun"`
	States      []State                     `json:"states"`
	Pruned      []PruneOutcome              `json:"pruned"`
	Renamed     rewrite.RenameResult        `json:"renamed"`
	Rewritten   rewrite.RewriteResult       `json:"rewritten"`
	Repository  *types.RepositoryDescriptor `json:"repository,omitempty"`
	Published   bool                        `json:"published"`
	Planned     *Planned                    `json:"planned,omitempty"`
	Error       string                      `json:"error,omitempty"`
	Started     time.Time                   `json:"started"`
	Duration    time.Duration               `json:"duration"`
}

// Final is the last state the run reached
func (r *Report) Final() State {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

// TotalPruned sums removed files across prune calls
func (r *Report) TotalPruned() int {
	total := 0
	for _, p := range r.Pruned {
		total += p.Removed
	}
	return total
}
