package release

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/relctl/relctl/internal/version"
)

// Orchestrator applies probe -> plan -> execute across a set of
// targets, sequentially and in caller order, isolating per-target
// failures. There is no cross-target rollback: a succeeded target stays
// released even when a later one fails.
type Orchestrator struct {
	Prober   *Prober
	Executor *Executor
	// Confirm gates destructive plans in live mode. Nil means always
	// proceed (non-interactive). Never consulted in dry-run.
	Confirm func(description string) bool
	Log     *zap.Logger
}

// Run reconciles every target to the desired tag and returns the run
// report. Individual target failures never stop later targets.
func (o *Orchestrator) Run(ctx context.Context, tag version.Tag, targets []Target, dryRun bool) RunReport {
	report := RunReport{Version: tag, DryRun: dryRun}
	for _, target := range targets {
		o.log().Info("processing target",
			zap.String("target", target.Name),
			zap.String("tag", tag.String()),
			zap.Bool("dry_run", dryRun),
		)
		res := o.runTarget(ctx, target, tag, dryRun)
		report.Results = append(report.Results, res)
		if res.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report
}

func (o *Orchestrator) runTarget(ctx context.Context, target Target, tag version.Tag, dryRun bool) (out ExecutionResult) {
	// A panicking collaborator fails its target, not the run.
	defer func() {
		if r := recover(); r != nil {
			o.log().Error("target panicked",
				zap.String("target", target.Name),
				zap.Any("panic", r),
			)
			out = ExecutionResult{
				Target: target,
				Detail: fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	obs, err := o.Prober.Probe(ctx, target, tag)
	if err != nil {
		return ExecutionResult{Target: target, Detail: err.Error()}
	}

	plan := BuildPlan(obs)
	if !dryRun && plan.Destructive() && o.Confirm != nil {
		if !o.Confirm(destructionSummary(target, tag, obs)) {
			return ExecutionResult{
				Target: target,
				Results: []ActionResult{{
					Action: ActionNoop,
					Detail: "declined confirmation, nothing attempted",
				}},
				Detail: "declined confirmation",
			}
		}
	}

	return o.Executor.Execute(ctx, target, tag, plan, dryRun)
}

// destructionSummary names the resources a reset-to-fresh plan will
// remove, for the confirmation prompt.
func destructionSummary(target Target, tag version.Tag, obs ObservedState) string {
	var existing []string
	if obs.Release != nil {
		existing = append(existing, "a GitHub release")
	}
	if obs.RemoteTag {
		existing = append(existing, "a remote tag")
	}
	if obs.LocalTag {
		existing = append(existing, "a local tag")
	}
	return fmt.Sprintf("%s: %s already has %s, delete and recreate?",
		target.Name, tag, strings.Join(existing, " and "))
}

func (o *Orchestrator) log() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}
