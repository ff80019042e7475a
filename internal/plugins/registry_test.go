package plugins

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlugin struct {
	name     string
	priority int
	host     string
	err      error
}

func (p *mockPlugin) Name() string  { return p.name }
func (p *mockPlugin) Priority() int { return p.priority }

func (p *mockPlugin) CanHandle(u *url.URL) bool {
	return u.Hostname() == p.host
}

func (p *mockPlugin) Resolve(_ context.Context, u *url.URL) (*FeedInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &FeedInfo{FeedURL: u.String() + "/feed", Title: p.name}, nil
}

func TestRegistry_Find(t *testing.T) {
	low := &mockPlugin{name: "low", priority: 10, host: "example.com"}
	high := &mockPlugin{name: "high", priority: 90, host: "example.com"}
	other := &mockPlugin{name: "other", priority: 100, host: "other.org"}
	r := NewRegistry(low, other)
	r.Register(high)

	assert.Equal(t, high, r.Find("https://example.com/x"))
	assert.Equal(t, other, r.Find("  https://other.org/ "))
	assert.Nil(t, r.Find("https://nobody.net"))
	assert.Nil(t, r.Find("not a url"))
	assert.Len(t, r.List(), 3)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(&mockPlugin{name: "mock", priority: 1, host: "example.com"})

	info, err := r.Resolve(context.Background(), "https://example.com/blog")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/blog", info.OriginalURL)
	assert.Equal(t, "https://example.com/blog/feed", info.FeedURL)
	assert.Equal(t, "mock", info.Plugin)
	assert.Equal(t, "mock", info.Title)
}

func TestRegistry_ResolvePassthrough(t *testing.T) {
	r := NewRegistry()

	info, err := r.Resolve(context.Background(), " https://blog.example.com/rss ")
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/rss", info.FeedURL)
	assert.Empty(t, info.Plugin)

	var nilRegistry *Registry
	info, err = nilRegistry.Resolve(context.Background(), "https://x.org")
	require.NoError(t, err)
	assert.Equal(t, "https://x.org", info.FeedURL)
}

func TestRegistry_ResolveError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(&mockPlugin{name: "mock", host: "example.com", err: boom})

	_, err := r.Resolve(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, boom)
}
