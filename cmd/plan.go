package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/relctl/relctl/internal/config"
	"github.com/relctl/relctl/internal/gitcli"
	"github.com/relctl/relctl/internal/release"
	"github.com/relctl/relctl/internal/strutil"
	"github.com/relctl/relctl/internal/version"
)

var (
	planJSON   bool
	planOnly   string
	planConfig string
)

var planCmd = &cobra.Command{
	Use:   "plan <version>",
	Short: "Show what a release run would do, without changing anything",
	Long: `Probe the main repository and every enabled plugin for their current
tag/release state at the given version and print the action plan a
release run would execute. Nothing is mutated.`,
	Example: `  # Human-readable plans for all targets
  relctl plan v1.5.1

  # Machine-readable output
  relctl plan v1.5.1 --json > plans.json`,
	Args: cobra.ExactArgs(1),
	Run:  runPlanCmd,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().BoolVar(&planJSON, "json", false, "Emit structured plans to stdout")
	planCmd.Flags().StringVar(&planOnly, "only", "", "Plan a single target by name")
	planCmd.Flags().StringVar(&planConfig, "config", "", "Path to the plugins file (default from relctl.toml)")
}

// targetPlan is one probed target with its computed plan.
type targetPlan struct {
	Target   release.Target         `json:"target"`
	Observed *release.ObservedState `json:"observed,omitempty"`
	Plan     *release.Plan          `json:"plan,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func runPlanCmd(cmd *cobra.Command, args []string) {
	tag, err := version.Normalize(args[0])
	if err != nil {
		log.Fatalf("Invalid version: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	git := gitcli.New(logger)

	var targets []release.Target
	if target, _, err := mainTarget(ctx, git, cfg); err == nil {
		targets = append(targets, target)
	} else {
		printWarning("main repository skipped: %v", err)
	}

	root := projectRoot(ctx, git, cfg)
	pluginsConfig = planConfig
	if plugins, err := pluginTargets(cfg, root); err == nil {
		targets = append(targets, plugins...)
	} else {
		printInfo("no plugin targets: %v", err)
	}

	if planOnly != "" {
		names := make([]string, 0, len(targets))
		filtered := targets[:0]
		for _, t := range targets {
			names = append(names, t.Name)
			if t.Name == planOnly {
				filtered = append(filtered, t)
			}
		}
		targets = filtered
		if len(targets) == 0 {
			msg := fmt.Sprintf("No target named %q", planOnly)
			if suggestion, _ := strutil.FindClosestCommand(planOnly, names, 2); suggestion != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			log.Fatalf("%s", msg)
		}
	}
	if len(targets) == 0 {
		log.Fatalf("No targets to plan")
	}

	token := config.ResolveToken(cfg)
	if token == "" {
		printWarning("No GitHub token: release state reported as absent")
	}

	orch := newOrchestrator(git, token, "", "", nil)

	var plans []targetPlan
	for _, target := range targets {
		tp := targetPlan{Target: target}
		obs, err := orch.Prober.Probe(ctx, target, tag)
		if err != nil {
			tp.Error = err.Error()
		} else {
			plan := release.BuildPlan(obs)
			tp.Observed = &obs
			tp.Plan = &plan
		}
		plans = append(plans, tp)
	}

	if planJSON {
		output, err := json.MarshalIndent(plans, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal plans: %v", err)
		}
		fmt.Println(string(output))
		return
	}

	for _, tp := range plans {
		fmt.Fprintln(os.Stderr)
		if tp.Error != "" {
			printError("%s: %s", tp.Target.Name, tp.Error)
			continue
		}
		printInfo("%s (%s at %s)", tp.Target.Name, tp.Target.Slug(), tag)
		fmt.Fprintf(os.Stderr, "  local tag: %v, remote tag: %v, release: %v\n",
			tp.Observed.LocalTag, tp.Observed.RemoteTag, tp.Observed.Release != nil)
		for i, step := range tp.Plan.Steps {
			fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, step.Action)
		}
	}
}
