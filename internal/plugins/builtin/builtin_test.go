package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedditResolve(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		feed  string
		title string
	}{
		{"subreddit", "https://www.reddit.com/r/golang", "https://www.reddit.com/r/golang/.rss", "Reddit - r/golang"},
		{"trailing slash", "https://reddit.com/r/programming/", "https://www.reddit.com/r/programming/.rss", "Reddit - r/programming"},
		{"old reddit", "https://old.reddit.com/r/rust/top", "https://www.reddit.com/r/rust/.rss", "Reddit - r/rust"},
		{"user", "https://www.reddit.com/user/spez", "https://www.reddit.com/user/spez/.rss", "Reddit - u/spez"},
		{"short user", "https://www.reddit.com/u/spez", "https://www.reddit.com/user/spez/.rss", "Reddit - u/spez"},
	}

	r := Registry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := r.Resolve(context.Background(), tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.feed, info.FeedURL)
			assert.Equal(t, tt.title, info.Title)
			assert.Equal(t, "reddit", info.Plugin)
		})
	}
}

func TestRedditIgnoresOtherPages(t *testing.T) {
	r := Registry()
	for _, u := range []string{
		"https://www.reddit.com/",
		"https://www.reddit.com/r/",
		"https://www.reddit.com/settings",
		"https://notreddit.com/r/golang",
	} {
		assert.Nil(t, r.Find(u), u)
	}
}

func TestGitHubResolve(t *testing.T) {
	r := Registry()

	info, err := r.Resolve(context.Background(), "https://github.com/charmbracelet/bubbletea")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/charmbracelet/bubbletea/releases.atom", info.FeedURL)
	assert.Equal(t, "charmbracelet/bubbletea releases", info.Title)

	info, err = r.Resolve(context.Background(), "https://github.com/golang/go.git/commits/master")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/golang/go/commits.atom", info.FeedURL)

	assert.Nil(t, r.Find("https://github.com/golang"))
	assert.Nil(t, r.Find("https://github.com/golang/go/releases.atom"))
}
