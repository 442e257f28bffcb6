package release

import (
	"context"
)

// fakeGit is an in-memory TagRunner recording mutating calls in order.
type fakeGit struct {
	notRepo bool
	local   bool
	remote  bool

	localErr  error
	remoteErr error

	createErr    error
	pushErr      error
	delLocalErr  error
	delRemoteErr error

	calls []string
}

func (f *fakeGit) IsRepo(ctx context.Context, dir string) bool { return !f.notRepo }

func (f *fakeGit) TagExists(ctx context.Context, dir, tag string) (bool, error) {
	return f.local, f.localErr
}

func (f *fakeGit) RemoteTagExists(ctx context.Context, dir, tag string) (bool, error) {
	return f.remote, f.remoteErr
}

func (f *fakeGit) CreateTag(ctx context.Context, dir, tag, message string) error {
	f.calls = append(f.calls, "create_local_tag")
	return f.createErr
}

func (f *fakeGit) DeleteLocalTag(ctx context.Context, dir, tag string) error {
	f.calls = append(f.calls, "delete_local_tag")
	return f.delLocalErr
}

func (f *fakeGit) DeleteRemoteTag(ctx context.Context, dir, tag string) error {
	f.calls = append(f.calls, "delete_remote_tag")
	return f.delRemoteErr
}

func (f *fakeGit) PushTag(ctx context.Context, dir, tag string) error {
	f.calls = append(f.calls, "push_tag")
	return f.pushErr
}

// fakeAPI is an in-memory ReleaseAPI recording calls in order.
type fakeAPI struct {
	release   *ReleaseHandle
	getErr    error
	deleteErr error
	createErr error

	calls []string
}

func (f *fakeAPI) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*ReleaseHandle, error) {
	f.calls = append(f.calls, "get_release")
	return f.release, f.getErr
}

func (f *fakeAPI) DeleteRelease(ctx context.Context, owner, repo string, id int64) error {
	f.calls = append(f.calls, "delete_release")
	return f.deleteErr
}

func (f *fakeAPI) CreateRelease(ctx context.Context, owner, repo string, rel NewRelease) error {
	f.calls = append(f.calls, "create_release")
	return f.createErr
}

// authFailure mimics a collaborator error that identifies itself as an
// authentication problem.
type authFailure struct{}

func (authFailure) Error() string   { return "401 unauthorized" }
func (authFailure) AuthError() bool { return true }

// absentFailure mimics a delete that found nothing to delete.
type absentFailure struct{ msg string }

func (e absentFailure) Error() string { return e.msg }
func (absentFailure) NotFound() bool  { return true }
