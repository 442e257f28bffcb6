package release

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/relctl/relctl/internal/version"
)

// Prober reads the observable release state for one target. API may be
// nil (tag-only mode); the hosted-release half is then reported absent.
type Prober struct {
	Git TagRunner
	API ReleaseAPI
	Log *zap.Logger
}

// Probe captures one target's state snapshot. It performs no mutation.
// Failures are typed: a missing directory is ErrTargetNotFound, an
// unanswerable collaborator is a ProbeError; both abort this target
// only.
func (p *Prober) Probe(ctx context.Context, target Target, tag version.Tag) (ObservedState, error) {
	var obs ObservedState

	if _, err := os.Stat(target.Dir); err != nil {
		return obs, fmt.Errorf("%w: %s", ErrTargetNotFound, target.Dir)
	}
	if !p.Git.IsRepo(ctx, target.Dir) {
		return obs, &ProbeError{
			Kind:   ProbeLocalVcsUnavailable,
			Target: target.Name,
			Err:    fmt.Errorf("not a git repository: %s", target.Dir),
		}
	}

	local, err := p.Git.TagExists(ctx, target.Dir, tag.String())
	if err != nil {
		return obs, &ProbeError{Kind: ProbeLocalVcsUnavailable, Target: target.Name, Err: err}
	}
	obs.LocalTag = local

	remote, err := p.Git.RemoteTagExists(ctx, target.Dir, tag.String())
	if err != nil {
		return obs, &ProbeError{Kind: ProbeNetwork, Target: target.Name, Err: err}
	}
	obs.RemoteTag = remote

	if p.API != nil {
		handle, err := p.API.GetReleaseByTag(ctx, target.Owner, target.Repo, tag.String())
		if err != nil {
			kind := ProbeNetwork
			if isAuth(err) {
				kind = ProbeAuth
			}
			return obs, &ProbeError{Kind: kind, Target: target.Name, Err: err}
		}
		obs.Release = handle
	}

	p.log().Debug("probed target",
		zap.String("target", target.Name),
		zap.String("tag", tag.String()),
		zap.Bool("local_tag", obs.LocalTag),
		zap.Bool("remote_tag", obs.RemoteTag),
		zap.Bool("release", obs.Release != nil),
	)
	return obs, nil
}

func (p *Prober) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}
