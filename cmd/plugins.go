package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/relctl/relctl/internal/config"
	"github.com/relctl/relctl/internal/gitcli"
	"github.com/relctl/relctl/internal/release"
	"github.com/relctl/relctl/internal/runlock"
	"github.com/relctl/relctl/internal/strutil"
	"github.com/relctl/relctl/internal/version"
)

var (
	pluginsDryRun bool
	pluginsYes    bool
	pluginsOnly   string
	pluginsConfig string
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins <version>",
	Short: "Reconcile every enabled plugin repository to the given version",
	Long: `Fan out the release over the plugin repositories listed in the
plugins file. Targets are processed in file order; one failing plugin
never stops the others, and the final summary names every failure.`,
	Example: `  # Release all enabled plugins
  relctl plugins v1.5.1

  # Release a single plugin
  relctl plugins v1.5.1 --only lynx-redis

  # Preview the fan-out
  relctl plugins v1.5.1 --dry-run`,
	Args: cobra.ExactArgs(1),
	Run:  runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)

	pluginsCmd.Flags().BoolVar(&pluginsDryRun, "dry-run", false, "Preview all operations without executing them")
	pluginsCmd.Flags().BoolVarP(&pluginsYes, "yes", "y", false, "Answer yes to every prompt")
	pluginsCmd.Flags().StringVar(&pluginsOnly, "only", "", "Release a single plugin by name")
	pluginsCmd.Flags().StringVar(&pluginsConfig, "config", "", "Path to the plugins file (default from relctl.toml)")
}

func runPlugins(cmd *cobra.Command, args []string) {
	tag, err := version.Normalize(args[0])
	if err != nil {
		log.Fatalf("Invalid version: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if pluginsDryRun {
		printWarning("DRY-RUN mode: no operations will be performed")
	}

	ctx := context.Background()
	git := gitcli.New(logger)
	root := projectRoot(ctx, git, cfg)

	targets, err := pluginTargets(cfg, root)
	if err != nil {
		log.Fatalf("%v", err)
	}

	printInfo("Loaded %d plugin(s):", len(targets))
	for _, t := range targets {
		fmt.Fprintf(os.Stderr, "  • %s -> %s\n", t.Name, t.Slug())
	}

	token := config.ResolveToken(cfg)
	if token == "" {
		printWarning("No GitHub token found; only tags will be created")
	}

	confirm := stdinConfirm(pluginsYes)
	if !pluginsDryRun && confirm != nil {
		prompt := fmt.Sprintf("About to create tag %s for %d plugin(s) and release on GitHub", tag, len(targets))
		if !confirm(prompt) {
			printInfo("Cancelled")
			return
		}
	}

	if !pluginsDryRun {
		if _, err := runlock.Acquire(root, tag.String()); err != nil {
			if errors.Is(err, runlock.ErrHeld) {
				log.Fatalf("%v", err)
			}
			printWarning("run lock unavailable: %v", err)
		} else {
			defer func() { _ = runlock.Release(root) }()
		}
	}

	orch := newOrchestrator(git, token, "", "", confirm)

	started := time.Now()
	report := orch.Run(ctx, tag, targets, pluginsDryRun)
	renderReport(report)
	recordRun(cfg, root, uuid.NewString(), started, report)

	if !report.Ok() {
		os.Exit(1)
	}
}

// pluginTargets loads the plugin list, applies the --only filter with a
// did-you-mean suggestion, and converts it into release targets.
func pluginTargets(cfg *config.Config, root string) ([]release.Target, error) {
	path := pluginsConfig
	if path == "" {
		if cfg.ConfigFilePath == "" && cfg.Main.PluginsFile == "" {
			printConfigNotFound()
		}
		path = cfg.PluginsPath()
	}

	plugins, err := config.LoadPlugins(path)
	if err != nil {
		return nil, err
	}
	enabled := config.EnabledPlugins(plugins)
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no enabled plugins in %s", path)
	}

	if pluginsOnly != "" {
		var match *config.Plugin
		names := make([]string, 0, len(enabled))
		for i := range enabled {
			names = append(names, enabled[i].Name)
			if enabled[i].Name == pluginsOnly {
				match = &enabled[i]
			}
		}
		if match == nil {
			msg := fmt.Sprintf("plugin %q not found in %s", pluginsOnly, path)
			if suggestion, _ := strutil.FindClosestCommand(pluginsOnly, names, 2); suggestion != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			return nil, errors.New(msg)
		}
		enabled = []config.Plugin{*match}
	}

	return config.PluginTargets(root, enabled)
}
