package release

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/relctl/relctl/internal/version"
)

// Executor applies one action plan to one target. API may be nil
// (tag-only mode): release creation is then recorded as a skip rather
// than a failure.
type Executor struct {
	Git TagRunner
	API ReleaseAPI
	// Title overrides the release title; default is the tag itself.
	Title string
	// Notes overrides the release body; default names the target.
	Notes string
	Log   *zap.Logger
}

// Execute runs the plan's steps in order. In dry-run mode every
// mutating action is replaced by a recorded no-op describing what would
// have happened; no collaborator mutation is ever invoked. Live
// execution halts at the first required-step failure, listing the
// remaining steps as not attempted; best-effort cleanup failures are
// recorded but do not halt.
func (e *Executor) Execute(ctx context.Context, target Target, tag version.Tag, plan Plan, dryRun bool) ExecutionResult {
	out := ExecutionResult{Target: target, Success: true}
	for i, step := range plan.Steps {
		if dryRun {
			out.Results = append(out.Results, ActionResult{
				Action: step.Action,
				OK:     true,
				Detail: e.wouldDetail(step, tag),
			})
			continue
		}

		res := e.apply(ctx, target, tag, step)
		out.Results = append(out.Results, res)
		e.log().Info("action finished",
			zap.String("target", target.Name),
			zap.String("action", string(step.Action)),
			zap.Bool("ok", res.OK),
		)
		if res.OK {
			continue
		}
		out.Success = false
		if step.Action.Required() {
			for _, rest := range plan.Steps[i+1:] {
				out.NotAttempted = append(out.NotAttempted, rest.Action)
			}
			break
		}
	}
	return out
}

func (e *Executor) apply(ctx context.Context, target Target, tag version.Tag, step Step) ActionResult {
	res := ActionResult{Action: step.Action}
	var err error

	switch step.Action {
	case ActionDeleteRelease:
		if e.API == nil || step.Release == nil {
			res.OK = true
			res.Detail = "skipped: no release to delete"
			return res
		}
		err = e.API.DeleteRelease(ctx, target.Owner, target.Repo, step.Release.ID)
		if err == nil {
			res.Detail = fmt.Sprintf("deleted GitHub release (id %d)", step.Release.ID)
		}
	case ActionDeleteRemoteTag:
		err = e.Git.DeleteRemoteTag(ctx, target.Dir, tag.String())
	case ActionDeleteLocalTag:
		err = e.Git.DeleteLocalTag(ctx, target.Dir, tag.String())
	case ActionCreateLocalTag:
		err = e.Git.CreateTag(ctx, target.Dir, tag.String(), "Release "+tag.String())
	case ActionPushTag:
		err = e.Git.PushTag(ctx, target.Dir, tag.String())
	case ActionCreateRelease:
		if e.API == nil {
			res.OK = true
			res.Detail = "skipped: no GitHub token, create the release manually"
			return res
		}
		err = e.API.CreateRelease(ctx, target.Owner, target.Repo, NewRelease{
			Tag:  tag.String(),
			Name: e.title(tag),
			Body: e.notes(tag, target),
		})
	default:
		res.OK = true
		return res
	}

	// A delete aiming at something already gone has reached the
	// desired state.
	if err != nil && step.Action.Destructive() && isAbsent(err) {
		res.OK = true
		res.Detail = "already absent"
		return res
	}
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	res.OK = true
	return res
}

func (e *Executor) wouldDetail(step Step, tag version.Tag) string {
	switch step.Action {
	case ActionDeleteRelease:
		return fmt.Sprintf("would delete GitHub release (id %d)", step.Release.ID)
	case ActionDeleteRemoteTag:
		return fmt.Sprintf("would delete remote tag %s", tag)
	case ActionDeleteLocalTag:
		return fmt.Sprintf("would delete local tag %s", tag)
	case ActionCreateLocalTag:
		return fmt.Sprintf("would create local tag %s", tag)
	case ActionPushTag:
		return fmt.Sprintf("would push tag %s to origin", tag)
	case ActionCreateRelease:
		if e.API == nil {
			return "would skip GitHub release (no token)"
		}
		return fmt.Sprintf("would create GitHub release %s", tag)
	}
	return "no operation"
}

func (e *Executor) title(tag version.Tag) string {
	if e.Title != "" {
		return e.Title
	}
	return tag.String()
}

func (e *Executor) notes(tag version.Tag, target Target) string {
	if e.Notes != "" {
		return e.Notes
	}
	return fmt.Sprintf("Release %s for %s", tag, target.Name)
}

func (e *Executor) log() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
