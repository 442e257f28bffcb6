// Package gitcli runs git against target working directories. It is
// the TagRunner used by the release engine.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// defaultTimeout bounds a single git invocation, including pushes.
	defaultTimeout = 2 * time.Minute
	baseBackoff    = 200 * time.Millisecond
)

// Runner executes git subcommands with a bounded timeout and retries
// network-facing calls on transient failures.
type Runner struct {
	Timeout time.Duration
	// Retries is the extra attempt count for network-facing calls
	// (push, ls-remote). Overridable via RELCTL_RETRIES.
	Retries int
	Log     *zap.Logger
}

// New returns a Runner with default timeout and one retry for
// network-facing calls.
func New(log *zap.Logger) *Runner {
	return &Runner{Timeout: defaultTimeout, Retries: 1, Log: log}
}

// notFoundError marks a delete whose subject was already absent.
type notFoundError struct{ msg string }

func (e *notFoundError) Error() string  { return e.msg }
func (e *notFoundError) NotFound() bool { return true }

// IsRepo reports whether dir is inside a git work tree.
func (r *Runner) IsRepo(ctx context.Context, dir string) bool {
	_, err := r.run(ctx, dir, 0, "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the top-level directory of the checkout containing dir.
func (r *Runner) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := r.run(ctx, dir, 0, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RemoteURL returns the origin remote URL for the checkout at dir.
func (r *Runner) RemoteURL(ctx context.Context, dir string) (string, error) {
	out, err := r.run(ctx, dir, 0, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// TagExists reports whether tag exists in the local checkout.
func (r *Runner) TagExists(ctx context.Context, dir, tag string) (bool, error) {
	out, err := r.run(ctx, dir, 0, "rev-parse", "--verify", "--quiet", "refs/tags/"+tag)
	if err == nil {
		return true, nil
	}
	// rev-parse --verify --quiet exits nonzero with no output when the
	// ref is missing; any diagnostic means a real failure.
	var ee *exec.ExitError
	if errors.As(err, &ee) && strings.TrimSpace(out) == "" {
		return false, nil
	}
	return false, err
}

// RemoteTagExists reports whether tag exists on origin.
func (r *Runner) RemoteTagExists(ctx context.Context, dir, tag string) (bool, error) {
	out, err := r.run(ctx, dir, r.retries(), "ls-remote", "--tags", "origin", "refs/tags/"+tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CreateTag creates an annotated tag at HEAD.
func (r *Runner) CreateTag(ctx context.Context, dir, tag, message string) error {
	_, err := r.run(ctx, dir, 0, "tag", "-a", tag, "-m", message)
	return err
}

// DeleteLocalTag removes the local tag. Absence is not an error.
func (r *Runner) DeleteLocalTag(ctx context.Context, dir, tag string) error {
	out, err := r.run(ctx, dir, 0, "tag", "-d", tag)
	if err != nil && strings.Contains(strings.ToLower(out), "not found") {
		return &notFoundError{msg: fmt.Sprintf("local tag %s not found", tag)}
	}
	return err
}

// DeleteRemoteTag removes the tag from origin. Absence is not an error.
func (r *Runner) DeleteRemoteTag(ctx context.Context, dir, tag string) error {
	out, err := r.run(ctx, dir, r.retries(), "push", "origin", "--delete", "refs/tags/"+tag)
	if err != nil && strings.Contains(strings.ToLower(out), "remote ref does not exist") {
		return &notFoundError{msg: fmt.Sprintf("remote tag %s not found", tag)}
	}
	return err
}

// PushTag pushes the tag to origin.
func (r *Runner) PushTag(ctx context.Context, dir, tag string) error {
	_, err := r.run(ctx, dir, r.retries(), "push", "origin", "refs/tags/"+tag)
	return err
}

// HasUncommittedChanges reports whether the work tree differs from HEAD.
func (r *Runner) HasUncommittedChanges(ctx context.Context, dir string) (bool, error) {
	_, err := r.run(ctx, dir, 0, "diff-index", "--quiet", "HEAD", "--")
	if err == nil {
		return false, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// Commit stages the given paths and commits them with message.
func (r *Runner) Commit(ctx context.Context, dir, message string, paths ...string) error {
	if _, err := r.run(ctx, dir, 0, append([]string{"add", "--"}, paths...)...); err != nil {
		return err
	}
	_, err := r.run(ctx, dir, 0, "commit", "-m", message)
	return err
}

// run executes one git invocation, combining stdout and stderr, with
// exponential backoff on transient network failures.
func (r *Runner) run(ctx context.Context, dir string, retries int, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	attempts := 1 + retries
	maxBackoff := maxBackoffFromEnv()
	var out []byte
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		cmd := exec.CommandContext(cctx, "git", args...)
		cmd.Dir = dir
		buf := &bytes.Buffer{}
		cmd.Stdout = buf
		cmd.Stderr = buf
		err = cmd.Run()
		cancel()
		out = buf.Bytes()

		if err == nil || !shouldRetry(buf.String(), attempt, attempts) || ctx.Err() != nil {
			break
		}

		delay := baseBackoff * time.Duration(1<<uint(attempt-1))
		if delay > maxBackoff {
			delay = maxBackoff
		}
		r.log().Debug("retrying git command",
			zap.Int("attempt", attempt+1),
			zap.Int("attempts", attempts),
			zap.Duration("delay", delay),
			zap.String("args", strings.Join(args, " ")),
		)
		select {
		case <-ctx.Done():
			return string(out), ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return string(out), fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (r *Runner) retries() int {
	if v := strings.TrimSpace(os.Getenv("RELCTL_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return r.Retries
}

// shouldRetry decides from output characteristics whether a retry is
// worthwhile (network or temporary errors only).
func shouldRetry(output string, attempt, attempts int) bool {
	if attempt >= attempts {
		return false
	}
	low := strings.ToLower(output)
	keys := []string{
		"timeout", "timed out", "temporary failure", "tls: handshake failure",
		"connection reset", "connection refused", "no route to host", "i/o timeout",
		"could not resolve host", "couldn't resolve host", "name or service not known",
		"remote error", "http 5", "internal server error", "rate limit",
	}
	for _, k := range keys {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

func maxBackoffFromEnv() time.Duration {
	if v := strings.TrimSpace(os.Getenv("RELCTL_MAX_BACKOFF_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return 2 * time.Second
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
