package release

import "context"

// TagRunner executes tag operations against a working directory. All
// calls are blocking and bounded by the supplied context; diagnostic
// text travels in the returned error.
type TagRunner interface {
	// IsRepo reports whether dir is a version-controlled checkout.
	IsRepo(ctx context.Context, dir string) bool
	// TagExists reports whether the tag exists in the local checkout.
	TagExists(ctx context.Context, dir, tag string) (bool, error)
	// RemoteTagExists reports whether the tag exists on origin.
	RemoteTagExists(ctx context.Context, dir, tag string) (bool, error)
	// CreateTag creates an annotated local tag.
	CreateTag(ctx context.Context, dir, tag, message string) error
	DeleteLocalTag(ctx context.Context, dir, tag string) error
	DeleteRemoteTag(ctx context.Context, dir, tag string) error
	PushTag(ctx context.Context, dir, tag string) error
}

// NewRelease is the payload for creating a hosted release.
type NewRelease struct {
	Tag  string
	Name string
	Body string
}

// ReleaseAPI performs hosted-release operations for one repository.
// Authentication is the implementation's concern.
type ReleaseAPI interface {
	// GetReleaseByTag returns the release for tag, or nil when the host
	// reports no release for it. Only genuine failures return an error.
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*ReleaseHandle, error)
	DeleteRelease(ctx context.Context, owner, repo string, id int64) error
	CreateRelease(ctx context.Context, owner, repo string, rel NewRelease) error
}
