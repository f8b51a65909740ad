package provision

// State is a stage of the provisioning pipeline
type State string

const (
	StateIdle              State = "idle"
	StateAcquiring         State = "acquiring"
	StatePruning           State = "pruning"
	StateRenaming          State = "renaming"
	StateRewritingContent  State = "rewriting_content"
	StateRegisteringRemote State = "registering_remote"
	StatePublishing        State = "publishing"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Terminal reports whether no further stage can run from s
func (s State) Terminal() bool {
	return s == StateFailed
}
