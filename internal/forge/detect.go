package forge

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/raphi011/fleet/internal/cmd"
	"github.com/raphi011/fleet/internal/git"
)

// clis maps a forge name to the CLI its methods shell out to
var clis = map[string]cmd.Tool{
	"github": {Name: "gh", Install: "https://cli.github.com"},
	"gitlab": {Name: "glab", Install: "https://gitlab.com/gitlab-org/cli"},
}

// Detect picks the forge for a remote URL. A host listed in hosts wins;
// otherwise URLs that mention gitlab select GitLab and anything else GitHub.
func Detect(remoteURL string, hosts map[string]string) (Forge, error) {
	if name, ok := lookupHost(hosts, remoteHost(remoteURL)); ok {
		return ByName(name)
	}
	if mentionsGitLab(remoteURL) {
		return &GitLab{}, nil
	}
	return &GitHub{}, nil
}

// DetectFromRepo detects the forge from the origin remote of the repository
// at dir and checks that its CLI is installed. A repository without a
// readable origin is an error, so no CLI ever runs against it.
func DetectFromRepo(ctx context.Context, dir string, hosts map[string]string) (Forge, error) {
	remoteURL, err := git.GetOriginURL(ctx, dir)
	if err != nil {
		return nil, err
	}
	f, err := Detect(remoteURL, hosts)
	if err != nil {
		return nil, err
	}
	if err := cmd.Require(clis[f.Name()]); err != nil {
		return nil, err
	}
	return f, nil
}

// ByName returns the forge called name ("github" or "gitlab").
func ByName(name string) (Forge, error) {
	switch strings.ToLower(name) {
	case "github":
		return &GitHub{}, nil
	case "gitlab":
		return &GitLab{}, nil
	}
	return nil, fmt.Errorf("unknown forge %q (valid: github, gitlab)", name)
}

func lookupHost(hosts map[string]string, host string) (string, bool) {
	if host == "" {
		return "", false
	}
	for h, name := range hosts {
		if strings.EqualFold(h, host) {
			return name, true
		}
	}
	return "", false
}

// remoteHost returns the host of a git remote URL: a URL with a scheme
// (https, ssh, git) or the scp-like [user@]host:path form. Local paths and
// file URLs have no host.
func remoteHost(remoteURL string) string {
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil || u.Scheme == "file" {
			return ""
		}
		return u.Hostname()
	}

	// scp-like syntax needs a colon before the first slash
	colon := strings.Index(remoteURL, ":")
	if colon <= 0 || strings.Contains(remoteURL[:colon], "/") {
		return ""
	}
	host := remoteURL[:colon]
	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}
	return host
}

// mentionsGitLab matches gitlab.com, gitlab.* hosts and /gitlab/ path prefixes
func mentionsGitLab(remoteURL string) bool {
	u := strings.ToLower(remoteURL)
	return strings.Contains(u, "gitlab.") || strings.Contains(u, "/gitlab/")
}
