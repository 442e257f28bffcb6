package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/relctl/relctl/internal/config"
	"github.com/relctl/relctl/internal/gitcli"
	"github.com/relctl/relctl/internal/github"
	"github.com/relctl/relctl/internal/journal"
	"github.com/relctl/relctl/internal/release"
	"github.com/relctl/relctl/internal/state"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed)
	boldColor    = color.New(color.Bold)
)

func printInfo(format string, args ...any) {
	_, _ = infoColor.Fprintf(os.Stderr, "ℹ️  "+format+"\n", args...)
}

func printSuccess(format string, args ...any) {
	_, _ = successColor.Fprintf(os.Stderr, "✅ "+format+"\n", args...)
}

func printWarning(format string, args ...any) {
	_, _ = warnColor.Fprintf(os.Stderr, "⚠️  "+format+"\n", args...)
}

func printError(format string, args ...any) {
	_, _ = errColor.Fprintf(os.Stderr, "❌ "+format+"\n", args...)
}

// printConfigNotFound prints a helpful message when relctl.toml is not found
func printConfigNotFound() {
	fmt.Fprintln(os.Stderr, `relctl.toml not found. Create one that looks like:

[main]
repo = "go-lynx/lynx"
plugins_file = "plugins.json"

or run 'relctl init'.`)
}

// stdinConfirm returns a confirmation capability reading y/N answers
// from stdin. With assumeYes it always proceeds without prompting.
func stdinConfirm(assumeYes bool) func(string) bool {
	if assumeYes {
		return nil
	}
	reader := bufio.NewReader(os.Stdin)
	return func(description string) bool {
		printWarning("%s", description)
		fmt.Fprint(os.Stderr, "Continue? (y/N): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(line), "y")
	}
}

// newOrchestrator wires the engine against git and, when a token is
// available, the GitHub API. An empty token means tag-only mode.
func newOrchestrator(git *gitcli.Runner, token, title, notes string, confirm func(string) bool) *release.Orchestrator {
	var api release.ReleaseAPI
	if token != "" {
		api = github.NewClient(token)
	}
	return &release.Orchestrator{
		Prober:   &release.Prober{Git: git, API: api, Log: logger},
		Executor: &release.Executor{Git: git, API: api, Title: title, Notes: notes, Log: logger},
		Confirm:  confirm,
		Log:      logger,
	}
}

// mainTarget resolves the main repository target from the checkout
// containing the working directory. The owner/name pair comes from
// relctl.toml when set, otherwise from the origin remote.
func mainTarget(ctx context.Context, git *gitcli.Runner, cfg *config.Config) (release.Target, string, error) {
	root, err := git.RepoRoot(ctx, ".")
	if err != nil {
		return release.Target{}, "", fmt.Errorf("not in a git repository: %w", err)
	}

	slug := cfg.Main.Repo
	if slug == "" {
		remote, err := git.RemoteURL(ctx, root)
		if err != nil {
			return release.Target{}, "", fmt.Errorf("failed to read origin remote: %w", err)
		}
		owner, repo, err := gitcli.ParseGitHubRemote(remote)
		if err != nil {
			return release.Target{}, "", err
		}
		slug = owner + "/" + repo
	}

	owner, repo, ok := strings.Cut(slug, "/")
	if !ok {
		return release.Target{}, "", fmt.Errorf("main repo must be owner/name, got %q", slug)
	}
	return release.Target{Name: repo, Dir: root, Owner: owner, Repo: repo}, root, nil
}

// projectRoot picks the directory run-local files live under: the
// config file's directory when present, else the enclosing checkout,
// else the working directory.
func projectRoot(ctx context.Context, git *gitcli.Runner, cfg *config.Config) string {
	if dir := cfg.ConfigDir(); dir != "" {
		return dir
	}
	if root, err := git.RepoRoot(ctx, "."); err == nil {
		return root
	}
	cwd, _ := os.Getwd()
	return cwd
}

// renderReport prints the per-target outcomes and the summary banner.
func renderReport(report release.RunReport) {
	for _, res := range report.Results {
		fmt.Fprintln(os.Stderr)
		if res.Success {
			printSuccess("%s", res.Target.Name)
		} else {
			printError("%s", res.Target.Name)
		}
		for _, ar := range res.Results {
			mark := successColor.Sprint("✓")
			if !ar.OK {
				mark = errColor.Sprint("✗")
			}
			line := fmt.Sprintf("  %s %s", mark, ar.Action)
			if ar.Detail != "" {
				line += ": " + ar.Detail
			}
			fmt.Fprintln(os.Stderr, line)
		}
		for _, skipped := range res.NotAttempted {
			fmt.Fprintf(os.Stderr, "  - %s: not attempted\n", skipped)
		}
		if res.Detail != "" && len(res.Results) == 0 {
			fmt.Fprintf(os.Stderr, "  %s\n", res.Detail)
		}
	}

	fmt.Fprintln(os.Stderr)
	_, _ = boldColor.Fprintln(os.Stderr, strings.Repeat("=", 60))
	label := "Release"
	if report.DryRun {
		label = "Dry-run"
	}
	_, _ = boldColor.Fprintf(os.Stderr, "%s %s complete\n", label, report.Version)
	fmt.Fprintf(os.Stderr, "Success: %s\n", successColor.Sprintf("%d/%d", report.Succeeded, len(report.Results)))
	if report.Failed > 0 {
		var failed []string
		for _, res := range report.Results {
			if !res.Success {
				failed = append(failed, res.Target.Name)
			}
		}
		fmt.Fprintf(os.Stderr, "Failed: %s\n", errColor.Sprint(strings.Join(failed, ", ")))
	}
	_, _ = boldColor.Fprintln(os.Stderr, strings.Repeat("=", 60))
}

// recordRun persists the run to the journal and, for live successes,
// the last-release state. Failures here are warnings only.
func recordRun(cfg *config.Config, root, runID string, started time.Time, report release.RunReport) {
	if cfg.Journal.On() {
		j, err := journal.Open(filepath.Join(root, journal.DefaultFile))
		if err != nil {
			printWarning("journal unavailable: %v", err)
		} else {
			defer func() { _ = j.Close() }()
			err = j.Record(journal.Run{
				ID:         runID,
				Version:    report.Version.String(),
				DryRun:     report.DryRun,
				StartedAt:  started,
				FinishedAt: time.Now(),
			}, report)
			if err != nil {
				printWarning("failed to record run: %v", err)
			}
		}
	}

	if report.DryRun {
		return
	}
	st, err := state.Load(root)
	if err != nil {
		printWarning("state unavailable: %v", err)
		return
	}
	changed := false
	for _, res := range report.Results {
		if res.Success {
			st.RecordRelease(res.Target.Name, report.Version.String(), runID)
			changed = true
		}
	}
	if changed {
		if err := st.Save(root); err != nil {
			printWarning("failed to save state: %v", err)
		}
	}
}
