// Package media opens article and media URLs in external applications.
package media

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
)

//go:embed openers.toml
var openersTOML []byte

type Type string

const (
	TypeVideo   Type = "video"
	TypeAudio   Type = "audio"
	TypeImage   Type = "image"
	TypePDF     Type = "pdf"
	TypeUnknown Type = "unknown"
)

var detectOrder = []Type{TypeVideo, TypeAudio, TypeImage, TypePDF}

type typeRule struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type player struct {
	Name      string   `toml:"name"`
	Types     []Type   `toml:"types"`
	Platforms []string `toml:"platforms"`
	Args      []string `toml:"args"`
}

type openerTable struct {
	Types   map[Type]typeRule `toml:"types"`
	Players []player          `toml:"players"`
}

// ErrEmptyURL is returned when there is nothing to open.
var ErrEmptyURL = errors.New("no URL to open")

// Launcher starts the first installed player for a URL's media type, or
// the default opener.
type Launcher struct {
	defaultOpener string
	table         openerTable
	goos          string
	lookPath      func(string) (string, error)
	start         func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) (*Launcher, error) {
	var table openerTable
	if err := toml.Unmarshal(openersTOML, &table); err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}
	return &Launcher{
		defaultOpener: cfg.Media.DefaultOpener,
		table:         table,
		goos:          runtime.GOOS,
		lookPath:      exec.LookPath,
		start:         startDetached,
	}, nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// DetectType classifies a URL by file extension, then by known hosts.
func (l *Launcher) DetectType(rawURL string) Type {
	lower := strings.ToLower(strings.TrimSpace(rawURL))

	p := lower
	if u, err := url.Parse(lower); err == nil {
		p = u.Path
	}
	if ext := strings.TrimPrefix(path.Ext(p), "."); ext != "" {
		for _, t := range detectOrder {
			if slices.Contains(l.table.Types[t].Extensions, ext) {
				return t
			}
		}
	}

	for _, t := range detectOrder {
		for _, pattern := range l.table.Types[t].URLPatterns {
			if strings.Contains(lower, pattern) {
				return t
			}
		}
	}
	return TypeUnknown
}

// Command builds the command that would open rawURL.
func (l *Launcher) Command(rawURL string) (*exec.Cmd, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrEmptyURL
	}

	t := l.DetectType(rawURL)
	for _, p := range l.table.Players {
		if !slices.Contains(p.Types, t) || !slices.Contains(p.Platforms, l.goos) {
			continue
		}
		if _, err := l.lookPath(p.Name); err != nil {
			continue
		}
		args := append(append([]string(nil), p.Args...), rawURL)
		return exec.Command(p.Name, args...), nil
	}

	opener := l.defaultOpener
	if opener == "" {
		return nil, fmt.Errorf("no application found to open %s", rawURL)
	}
	if opener == "start" {
		// start is a cmd.exe builtin.
		return exec.Command("cmd", "/c", "start", "", rawURL), nil
	}
	return exec.Command(opener, rawURL), nil
}

// Open starts the application for rawURL without waiting for it.
func (l *Launcher) Open(rawURL string) error {
	cmd, err := l.Command(rawURL)
	if err != nil {
		return err
	}
	debuglog.Debugf("opening %s with %s", rawURL, cmd.Path)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Args[0], err)
	}
	return nil
}
