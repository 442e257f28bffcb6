package release

// BuildPlan computes the reset-to-fresh action sequence for one
// observed state. Existing resources are never reused, even when they
// already match the desired version: stale metadata from an aborted
// prior attempt is indistinguishable from current metadata, so every
// existing resource is scheduled for deletion and unconditional
// recreation. Order is fixed: the release must be gone before its tag,
// and tags must exist remotely before a release can reference them.
func BuildPlan(obs ObservedState) Plan {
	var steps []Step
	if obs.Release != nil {
		steps = append(steps, Step{Action: ActionDeleteRelease, Release: obs.Release})
	}
	if obs.RemoteTag {
		steps = append(steps, Step{Action: ActionDeleteRemoteTag})
	}
	if obs.LocalTag {
		steps = append(steps, Step{Action: ActionDeleteLocalTag})
	}
	steps = append(steps,
		Step{Action: ActionCreateLocalTag},
		Step{Action: ActionPushTag},
		Step{Action: ActionCreateRelease},
	)
	return Plan{Steps: steps}
}
