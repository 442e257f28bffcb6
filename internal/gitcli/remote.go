package gitcli

import (
	"fmt"
	"regexp"
)

// remotePattern accepts the common GitHub remote forms:
// https://github.com/owner/repo.git, git@github.com:owner/repo.git,
// https://github.com/owner/repo.
var remotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseGitHubRemote extracts the owner/name pair from a git remote URL.
func ParseGitHubRemote(url string) (owner, repo string, err error) {
	m := remotePattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", fmt.Errorf("gitcli: not a GitHub remote: %q", url)
	}
	return m[1], m[2], nil
}
