package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/relctl/relctl/internal/config"
	"github.com/relctl/relctl/internal/gitcli"
	"github.com/relctl/relctl/internal/release"
	"github.com/relctl/relctl/internal/runlock"
	"github.com/relctl/relctl/internal/version"
	"github.com/relctl/relctl/internal/versionfile"
)

var (
	releaseDryRun      bool
	releaseYes         bool
	releaseName        string
	releaseNotes       string
	releaseSkipVerFile bool
)

var releaseCmd = &cobra.Command{
	Use:   "release <version>",
	Short: "Reconcile the main repository to the given release version",
	Long: `Reconcile the main repository's local tag, remote tag and GitHub
release to the given version. Existing resources for that version are
deleted and recreated so that a re-run after a partial failure always
converges on a fresh, consistent release.`,
	Example: `  # Release the main repository
  relctl release v1.5.1

  # Preview without touching anything
  relctl release v1.5.1 --dry-run

  # Non-interactive, custom release notes
  relctl release v1.5.1 --yes --notes "Bugfix release"`,
	Args: cobra.ExactArgs(1),
	Run:  runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().BoolVar(&releaseDryRun, "dry-run", false, "Preview all operations without executing them")
	releaseCmd.Flags().BoolVarP(&releaseYes, "yes", "y", false, "Answer yes to every prompt")
	releaseCmd.Flags().StringVar(&releaseName, "name", "", "Release title (default: the tag)")
	releaseCmd.Flags().StringVar(&releaseNotes, "notes", "", "Release body text")
	releaseCmd.Flags().BoolVar(&releaseSkipVerFile, "skip-version-file", false, "Skip syncing the configured version file")
}

func runRelease(cmd *cobra.Command, args []string) {
	tag, err := version.Normalize(args[0])
	if err != nil {
		log.Fatalf("Invalid version: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if releaseDryRun {
		printWarning("DRY-RUN mode: no operations will be performed")
	}

	ctx := context.Background()
	git := gitcli.New(logger)

	target, root, err := mainTarget(ctx, git, cfg)
	if err != nil {
		log.Fatalf("Failed to resolve main repository: %v", err)
	}
	printInfo("Repository: %s", target.Slug())
	printInfo("Working directory: %s", root)

	token := config.ResolveToken(cfg)
	if token == "" {
		printWarning("No GitHub token found (GITHUB_TOKEN or .env)")
		printWarning("Only tags will be created; the GitHub release is skipped")
	}

	confirm := stdinConfirm(releaseYes)

	// Uncommitted changes would be tagged as-is; make that explicit.
	if dirty, derr := git.HasUncommittedChanges(ctx, root); derr == nil && dirty && !releaseDryRun {
		if confirm != nil && !confirm("You have uncommitted changes") {
			printInfo("Release cancelled")
			return
		}
		if confirm == nil {
			printWarning("You have uncommitted changes, continuing (--yes)")
		}
	}

	syncVersionFile(ctx, git, cfg, root, tag)

	if !releaseDryRun {
		if _, err := runlock.Acquire(root, tag.String()); err != nil {
			if errors.Is(err, runlock.ErrHeld) {
				log.Fatalf("%v", err)
			}
			printWarning("run lock unavailable: %v", err)
		} else {
			defer func() { _ = runlock.Release(root) }()
		}
	}

	orch := newOrchestrator(git, token, releaseName, releaseNotes, confirm)

	started := time.Now()
	report := orch.Run(ctx, tag, []release.Target{target}, releaseDryRun)
	renderReport(report)
	recordRun(cfg, root, uuid.NewString(), started, report)

	if report.Ok() && !report.DryRun {
		printInfo("Next: release the plugins with 'relctl plugins %s'", tag)
	}
	if !report.Ok() {
		os.Exit(1)
	}
}

// syncVersionFile rewrites the configured version file to the new tag
// and commits the change so the tag points at the bumped content.
func syncVersionFile(ctx context.Context, git *gitcli.Runner, cfg *config.Config, root string, tag version.Tag) {
	if releaseSkipVerFile || cfg.Main.VersionFile == "" {
		return
	}

	rel := cfg.Main.VersionFile
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, rel)
	}

	changed, err := versionfile.Sync(path, tag.String(), releaseDryRun)
	if err != nil {
		printWarning("version file not synced: %v", err)
		return
	}
	if !changed {
		printInfo("Version file already matches %s", tag)
		return
	}
	if releaseDryRun {
		printInfo("[DRY-RUN] Would update %s to %s", rel, tag)
		return
	}
	if err := git.Commit(ctx, root, "chore: bump version to "+tag.String(), rel); err != nil {
		printWarning("failed to commit version file: %v", err)
		return
	}
	printSuccess("Committed version bump, the tag will point at it")
}
