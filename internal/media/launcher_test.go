package media

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/skim/internal/config"
)

func newTestLauncher(t *testing.T, goos string, installed ...string) (*Launcher, *[]*exec.Cmd) {
	t.Helper()
	l, err := NewLauncher(config.TestConfig())
	require.NoError(t, err)

	l.goos = goos
	l.defaultOpener = "xdg-open"
	l.lookPath = func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	var started []*exec.Cmd
	l.start = func(cmd *exec.Cmd) error {
		started = append(started, cmd)
		return nil
	}
	return l, &started
}

func TestDetectType(t *testing.T) {
	l, _ := newTestLauncher(t, "linux")

	tests := []struct {
		url      string
		expected Type
	}{
		{"http://example.com/video.mp4", TypeVideo},
		{"http://example.com/VIDEO.MKV", TypeVideo},
		{"https://www.youtube.com/watch?v=abc123", TypeVideo},
		{"https://youtu.be/abc123", TypeVideo},
		{"https://vimeo.com/123456", TypeVideo},
		{"http://example.com/song.mp3", TypeAudio},
		{"http://example.com/track.m4a", TypeAudio},
		{"http://example.com/Photo.JpEg", TypeImage},
		{"http://example.com/vector.svg", TypeImage},
		{"http://example.com/doc.pdf?version=2", TypePDF},
		{"http://example.com/doc.pdf#page=3", TypePDF},
		{"http://example.com/page.html", TypeUnknown},
		{"http://example.com/resource", TypeUnknown},
		{"http://example.com/file.xyz", TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.DetectType(tt.url))
		})
	}
}

func TestCommand_PrefersInstalledPlayer(t *testing.T) {
	l, _ := newTestLauncher(t, "linux", "feh", "mpv")

	cmd, err := l.Command("http://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"feh", "--scale-down", "--auto-zoom", "http://example.com/a.png"}, cmd.Args)

	cmd, err = l.Command("https://youtu.be/x")
	require.NoError(t, err)
	assert.Equal(t, []string{"mpv", "--force-window=immediate", "https://youtu.be/x"}, cmd.Args)
}

func TestCommand_FallsBackToDefaultOpener(t *testing.T) {
	l, _ := newTestLauncher(t, "linux")

	cmd, err := l.Command("https://example.com/post")
	require.NoError(t, err)
	assert.Equal(t, []string{"xdg-open", "https://example.com/post"}, cmd.Args)

	// Installed players for another platform are skipped.
	l, _ = newTestLauncher(t, "darwin", "feh")
	l.defaultOpener = "open"
	cmd, err = l.Command("http://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "http://example.com/a.png"}, cmd.Args)
}

func TestCommand_WindowsStart(t *testing.T) {
	l, _ := newTestLauncher(t, "windows")
	l.defaultOpener = "start"

	cmd, err := l.Command("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd", "/c", "start", "", "https://example.com"}, cmd.Args)
}

func TestCommand_Errors(t *testing.T) {
	l, _ := newTestLauncher(t, "linux")

	_, err := l.Command("  ")
	assert.ErrorIs(t, err, ErrEmptyURL)

	l.defaultOpener = ""
	_, err = l.Command("https://example.com")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	l, started := newTestLauncher(t, "linux")

	require.NoError(t, l.Open("https://example.com/post"))
	require.Len(t, *started, 1)
	assert.Equal(t, "https://example.com/post", (*started)[0].Args[1])

	l.start = func(*exec.Cmd) error { return errors.New("boom") }
	assert.ErrorContains(t, l.Open("https://example.com/post"), "failed to start xdg-open")
}
