package builtin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pders01/skim/internal/plugins"
)

// GitHub follows a repository's releases, or its commits when the URL
// points at /commits.
type GitHub struct{}

func NewGitHub() *GitHub { return &GitHub{} }

func (p *GitHub) Name() string  { return "github" }
func (p *GitHub) Priority() int { return 40 }

func (p *GitHub) CanHandle(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return false
	}
	owner, repo, _ := githubRepo(u.Path)
	return owner != "" && repo != "" && !strings.HasSuffix(u.Path, ".atom")
}

func (p *GitHub) Resolve(_ context.Context, u *url.URL) (*plugins.FeedInfo, error) {
	owner, repo, section := githubRepo(u.Path)
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("github: no repository in %s", u.Path)
	}

	slug := owner + "/" + repo
	if section == "commits" {
		return &plugins.FeedInfo{
			FeedURL:     "https://github.com/" + slug + "/commits.atom",
			Title:       slug + " commits",
			Description: "Recent commits to " + slug,
		}, nil
	}
	return &plugins.FeedInfo{
		FeedURL:     "https://github.com/" + slug + "/releases.atom",
		Title:       slug + " releases",
		Description: "Releases of " + slug,
	}, nil
}

func githubRepo(path string) (owner, repo, section string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return "", "", ""
	}
	owner, repo = parts[0], strings.TrimSuffix(parts[1], ".git")
	if len(parts) > 2 {
		section = parts[2]
	}
	return owner, repo, section
}

// Registry returns a registry holding every built-in plugin.
func Registry() *plugins.Registry {
	return plugins.NewRegistry(NewReddit(), NewGitHub())
}
