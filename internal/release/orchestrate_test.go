package release

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(git *fakeGit, api ReleaseAPI) *Orchestrator {
	return &Orchestrator{
		Prober:   &Prober{Git: git, API: api},
		Executor: &Executor{Git: git, API: api},
	}
}

func TestRunFailureIsolation(t *testing.T) {
	git := &fakeGit{}
	o := newTestOrchestrator(git, &fakeAPI{})
	tag := mustTag(t, "v1.0.0")

	good1 := Target{Name: "lynx-redis", Dir: t.TempDir(), Owner: "go-lynx", Repo: "lynx-redis"}
	missing := Target{Name: "lynx-gone", Dir: filepath.Join(t.TempDir(), "absent"), Owner: "go-lynx", Repo: "lynx-gone"}
	good2 := Target{Name: "lynx-kafka", Dir: t.TempDir(), Owner: "go-lynx", Repo: "lynx-kafka"}

	report := o.Run(context.Background(), tag, []Target{good1, missing, good2}, false)

	require.Len(t, report.Results, 3, "one report entry per target")
	assert.True(t, report.Results[0].Success)
	assert.False(t, report.Results[1].Success)
	assert.Contains(t, report.Results[1].Detail, "target directory not found")
	assert.True(t, report.Results[2].Success, "a failed sibling must not stop later targets")
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.False(t, report.Ok())
}

func TestRunSecondTargetFailsAtPush(t *testing.T) {
	tag := mustTag(t, "v1.0.0")

	gitOK := &fakeGit{}
	gitPushFails := &fakeGit{pushErr: assert.AnError}
	api := &fakeAPI{}

	// Each target owns disjoint external resources; model that with a
	// runner per target behind a switching front.
	first := Target{Name: "one", Dir: t.TempDir()}
	second := Target{Name: "two", Dir: t.TempDir()}
	front := &switchingGit{byDir: map[string]*fakeGit{first.Dir: gitOK, second.Dir: gitPushFails}}

	o := &Orchestrator{
		Prober:   &Prober{Git: front, API: api},
		Executor: &Executor{Git: front, API: api},
	}
	report := o.Run(context.Background(), tag, []Target{first, second}, false)

	require.Len(t, report.Results, 2)

	r1 := report.Results[0]
	assert.True(t, r1.Success)
	require.Len(t, r1.Results, 3, "fresh target runs create, push, create_release")

	r2 := report.Results[1]
	assert.False(t, r2.Success)
	require.Len(t, r2.Results, 2)
	assert.Equal(t, ActionPushTag, r2.Results[1].Action)
	assert.False(t, r2.Results[1].OK)
	for _, ar := range r2.Results {
		assert.NotEqual(t, ActionCreateRelease, ar.Action, "create_release must be absent after failed push")
	}
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}

func TestRunConfirmGatesDestructivePlans(t *testing.T) {
	git := &fakeGit{local: true, remote: true}
	o := newTestOrchestrator(git, &fakeAPI{release: &ReleaseHandle{ID: 3, Tag: "v1.0.0"}})

	var asked string
	o.Confirm = func(description string) bool {
		asked = description
		return false
	}

	target := Target{Name: "lynx", Dir: t.TempDir(), Owner: "go-lynx", Repo: "lynx"}
	report := o.Run(context.Background(), mustTag(t, "v1.0.0"), []Target{target}, false)

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.False(t, res.Success)
	assert.Equal(t, "declined confirmation", res.Detail)
	assert.Empty(t, git.calls, "declining must prevent every mutation")
	assert.Contains(t, asked, "lynx")
	assert.Contains(t, asked, "v1.0.0")
	assert.Contains(t, asked, "GitHub release")
}

func TestRunConfirmNotAskedForFreshState(t *testing.T) {
	git := &fakeGit{}
	o := newTestOrchestrator(git, &fakeAPI{})
	o.Confirm = func(string) bool {
		t.Fatal("confirm must not be consulted when nothing is destroyed")
		return false
	}

	target := Target{Name: "lynx", Dir: t.TempDir()}
	report := o.Run(context.Background(), mustTag(t, "v1.0.0"), []Target{target}, false)
	assert.True(t, report.Ok())
}

func TestRunConfirmNotAskedInDryRun(t *testing.T) {
	git := &fakeGit{local: true, remote: true}
	o := newTestOrchestrator(git, &fakeAPI{release: &ReleaseHandle{ID: 3}})
	o.Confirm = func(string) bool {
		t.Fatal("confirm must not be consulted in dry-run")
		return false
	}

	target := Target{Name: "lynx", Dir: t.TempDir(), Owner: "go-lynx", Repo: "lynx"}
	report := o.Run(context.Background(), mustTag(t, "v1.0.0"), []Target{target}, true)
	assert.True(t, report.Ok())
	assert.Empty(t, git.calls)
}

func TestRunRecoversFromPanickingCollaborator(t *testing.T) {
	o := &Orchestrator{
		Prober:   &Prober{Git: &panickyGit{}},
		Executor: &Executor{Git: &panickyGit{}},
	}
	bad := Target{Name: "boom", Dir: t.TempDir()}
	good := Target{Name: "calm", Dir: t.TempDir()}

	// Second target uses a healthy runner through the same orchestrator.
	report := o.Run(context.Background(), mustTag(t, "v1.0.0"), []Target{bad}, false)
	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].Success)
	assert.Contains(t, report.Results[0].Detail, "panic")

	o.Prober.Git = &fakeGit{}
	o.Executor.Git = &fakeGit{}
	report = o.Run(context.Background(), mustTag(t, "v1.0.0"), []Target{good}, false)
	assert.True(t, report.Ok())
}

func TestRunReportVersionAndMode(t *testing.T) {
	o := newTestOrchestrator(&fakeGit{}, &fakeAPI{})
	tag := mustTag(t, "v2.1.0")
	report := o.Run(context.Background(), tag, []Target{{Name: "a", Dir: t.TempDir()}}, true)

	assert.Equal(t, tag, report.Version)
	assert.True(t, report.DryRun)
}

// switchingGit routes calls to a per-directory fake, mirroring targets
// that own disjoint working directories.
type switchingGit struct {
	byDir map[string]*fakeGit
}

func (s *switchingGit) pick(dir string) *fakeGit { return s.byDir[dir] }

func (s *switchingGit) IsRepo(ctx context.Context, dir string) bool {
	return s.pick(dir).IsRepo(ctx, dir)
}

func (s *switchingGit) TagExists(ctx context.Context, dir, tag string) (bool, error) {
	return s.pick(dir).TagExists(ctx, dir, tag)
}

func (s *switchingGit) RemoteTagExists(ctx context.Context, dir, tag string) (bool, error) {
	return s.pick(dir).RemoteTagExists(ctx, dir, tag)
}

func (s *switchingGit) CreateTag(ctx context.Context, dir, tag, message string) error {
	return s.pick(dir).CreateTag(ctx, dir, tag, message)
}

func (s *switchingGit) DeleteLocalTag(ctx context.Context, dir, tag string) error {
	return s.pick(dir).DeleteLocalTag(ctx, dir, tag)
}

func (s *switchingGit) DeleteRemoteTag(ctx context.Context, dir, tag string) error {
	return s.pick(dir).DeleteRemoteTag(ctx, dir, tag)
}

func (s *switchingGit) PushTag(ctx context.Context, dir, tag string) error {
	return s.pick(dir).PushTag(ctx, dir, tag)
}

// panickyGit blows up on first touch.
type panickyGit struct{}

func (panickyGit) IsRepo(ctx context.Context, dir string) bool { panic("runner exploded") }

func (panickyGit) TagExists(ctx context.Context, dir, tag string) (bool, error) {
	panic("runner exploded")
}

func (panickyGit) RemoteTagExists(ctx context.Context, dir, tag string) (bool, error) {
	panic("runner exploded")
}

func (panickyGit) CreateTag(ctx context.Context, dir, tag, message string) error {
	panic("runner exploded")
}

func (panickyGit) DeleteLocalTag(ctx context.Context, dir, tag string) error {
	panic("runner exploded")
}

func (panickyGit) DeleteRemoteTag(ctx context.Context, dir, tag string) error {
	panic("runner exploded")
}

func (panickyGit) PushTag(ctx context.Context, dir, tag string) error { panic("runner exploded") }
