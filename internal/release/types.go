package release

import (
	"github.com/relctl/relctl/internal/version"
)

// Target identifies one repository to bring to the desired release state.
type Target struct {
	// Name is the display name used in reports and prompts.
	Name string `json:"name"`
	// Dir is the working directory of the checkout.
	Dir string `json:"dir"`
	// Owner and Repo address the hosted repository (owner/name).
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Slug returns the owner/name form used to address the hosted API.
func (t Target) Slug() string { return t.Owner + "/" + t.Repo }

// ReleaseHandle identifies an existing hosted release. The ID is opaque
// to the engine and only usable for deletion.
type ReleaseHandle struct {
	ID   int64  `json:"id"`
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// ObservedState is one target's release state snapshot. It is captured
// once per reconciliation attempt and never mutated; a new probe must
// be issued to see updated state.
type ObservedState struct {
	LocalTag  bool           `json:"local_tag"`
	RemoteTag bool           `json:"remote_tag"`
	Release   *ReleaseHandle `json:"release,omitempty"`
}

// Fresh reports whether none of the three resources exist yet.
func (o ObservedState) Fresh() bool {
	return !o.LocalTag && !o.RemoteTag && o.Release == nil
}

// Action is one atomic reconciliation operation. Each action either
// fully succeeds or fully fails; there is no partial-action state.
type Action string

const (
	ActionDeleteRelease   Action = "delete_release"
	ActionDeleteRemoteTag Action = "delete_remote_tag"
	ActionDeleteLocalTag  Action = "delete_local_tag"
	ActionCreateLocalTag  Action = "create_local_tag"
	ActionPushTag         Action = "push_tag"
	ActionCreateRelease   Action = "create_release"
	// ActionNoop records an entry that performed no external operation,
	// e.g. a target skipped at the confirmation gate.
	ActionNoop Action = "noop"
)

// Required reports whether a failure of this action halts the remaining
// plan. Cleanup deletes are best-effort; create and push are not.
func (a Action) Required() bool {
	switch a {
	case ActionCreateLocalTag, ActionPushTag, ActionCreateRelease:
		return true
	}
	return false
}

// Destructive reports whether the action removes an existing resource.
func (a Action) Destructive() bool {
	switch a {
	case ActionDeleteRelease, ActionDeleteRemoteTag, ActionDeleteLocalTag:
		return true
	}
	return false
}

// Step is one planned action. Release is set only for delete_release,
// carrying the handle captured at probe time.
type Step struct {
	Action  Action         `json:"action"`
	Release *ReleaseHandle `json:"release,omitempty"`
}

// Plan is the ordered action sequence for one target, computed once per
// attempt from one ObservedState. Ordering is significant and is not
// re-validated mid-execution; if external state changes between probe
// and execution the executor may fail a step rather than silently
// succeed.
type Plan struct {
	Steps []Step `json:"steps"`
}

// Destructive reports whether the plan deletes any existing resource.
func (p Plan) Destructive() bool {
	for _, s := range p.Steps {
		if s.Action.Destructive() {
			return true
		}
	}
	return false
}

// Actions returns the plan's action kinds in order.
func (p Plan) Actions() []Action {
	out := make([]Action, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.Action)
	}
	return out
}

// ActionResult records one attempted action.
type ActionResult struct {
	Action Action `json:"action"`
	OK     bool   `json:"ok"`
	// Detail carries the failure diagnostic, or in dry-run the
	// description of what would have happened.
	Detail string `json:"detail,omitempty"`
}

// ExecutionResult is one target's outcome. Success is true iff every
// attempted action succeeded and nothing was left unattempted.
type ExecutionResult struct {
	Target  Target         `json:"target"`
	Results []ActionResult `json:"results"`
	// NotAttempted lists actions skipped after a required-step failure.
	NotAttempted []Action `json:"not_attempted,omitempty"`
	Success      bool     `json:"success"`
	// Detail is set when the target failed before execution (missing
	// directory, probe error, declined confirmation).
	Detail string `json:"detail,omitempty"`
}

// RunReport is the aggregate outcome of one orchestrator run. It is
// created fresh per run and never persisted by the engine; rendering
// and storage belong to the caller.
type RunReport struct {
	Version   version.Tag       `json:"version"`
	DryRun    bool              `json:"dry_run"`
	Results   []ExecutionResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// Ok reports whether every target succeeded; it drives the process
// exit status.
func (r RunReport) Ok() bool { return r.Failed == 0 }
