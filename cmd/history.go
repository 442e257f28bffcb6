package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/relctl/relctl/internal/config"
	"github.com/relctl/relctl/internal/gitcli"
	"github.com/relctl/relctl/internal/journal"
	"github.com/relctl/relctl/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent release runs and the last released tag per target",
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	git := gitcli.New(logger)
	root := projectRoot(ctx, git, cfg)

	journalPath := filepath.Join(root, journal.DefaultFile)
	if _, err := os.Stat(journalPath); os.IsNotExist(err) {
		printInfo("No release history under %s", root)
	} else {
		j, err := journal.Open(journalPath)
		if err != nil {
			log.Fatalf("Failed to open journal: %v", err)
		}
		defer func() { _ = j.Close() }()

		runs, err := j.Recent(historyLimit)
		if err != nil {
			log.Fatalf("Failed to read journal: %v", err)
		}
		if len(runs) == 0 {
			printInfo("No recorded runs")
		}
		for _, run := range runs {
			mode := ""
			if run.DryRun {
				mode = " (dry-run)"
			}
			outcome := successColor.Sprintf("%d ok", run.Succeeded)
			if run.Failed > 0 {
				outcome += ", " + errColor.Sprintf("%d failed", run.Failed)
			}
			fmt.Fprintf(os.Stderr, "%s  %s%s  %s\n",
				run.StartedAt.Local().Format("2006-01-02 15:04"), run.Version, mode, outcome)

			targets, err := j.Targets(run.ID)
			if err != nil {
				continue
			}
			for _, t := range targets {
				mark := successColor.Sprint("✓")
				if !t.Success {
					mark = errColor.Sprint("✗")
				}
				line := fmt.Sprintf("    %s %s", mark, t.Name)
				if !t.Success && t.Detail != "" {
					line += ": " + t.Detail
				}
				fmt.Fprintln(os.Stderr, line)
			}
		}
	}

	st, err := state.Load(root)
	if err != nil || len(st.Targets) == 0 {
		return
	}

	names := make([]string, 0, len(st.Targets))
	for name := range st.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr)
	_, _ = boldColor.Fprintln(os.Stderr, "Last released:")
	for _, name := range names {
		ts := st.Targets[name]
		fmt.Fprintf(os.Stderr, "  %-20s %s  (%s)\n",
			name, ts.Tag, ts.ReleasedAt.Local().Format(time.RFC3339))
	}
}
