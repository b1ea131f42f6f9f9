package domain

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// knownEngines are the browser engines accepted in Config.Browsers.
var knownEngines = []string{"chrome", "edge", "firefox", "safari", "ios", "opera", "ie"}

// ServerConfig configures the dev server.
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// Config is the immutable build configuration handed to every component.
type Config struct {
	Root        string
	SourceDir   string
	OutputDir   string
	Vendors     []string
	Browsers    []string
	Server      ServerConfig
	Debounce    time.Duration
	Parallelism int
}

// DefaultConfig returns the configuration used when no kiln.yaml is present.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		SourceDir:   DefaultSourceDir,
		OutputDir:   DefaultOutputDir,
		Vendors:     DefaultVendors(),
		Browsers:    DefaultBrowsers(),
		Server:      ServerConfig{Host: DefaultHost, Port: DefaultPort},
		Debounce:    DefaultDebounce,
		Parallelism: runtime.NumCPU(),
	}
}

// SourcePath joins elem onto the absolute source root.
func (c Config) SourcePath(elem ...string) string {
	return filepath.Join(append([]string{c.Root, c.SourceDir}, elem...)...)
}

// OutputPath joins elem onto the absolute build output root.
func (c Config) OutputPath(elem ...string) string {
	return filepath.Join(append([]string{c.Root, c.OutputDir}, elem...)...)
}

// SourcePattern returns a root-relative, slash separated glob under the source root.
func (c Config) SourcePattern(elem ...string) string {
	return filepath.ToSlash(filepath.Join(append([]string{c.SourceDir}, elem...)...))
}

// OutputRel returns a root-relative path under the output root.
func (c Config) OutputRel(elem ...string) string {
	return filepath.Join(append([]string{c.OutputDir}, elem...)...)
}

// WithServer returns a copy of c with the dev server address overridden.
// Zero values keep the current setting.
func (c Config) WithServer(host string, port int) Config {
	if host != "" {
		c.Server.Host = host
	}
	if port != 0 {
		c.Server.Port = port
	}
	return c
}

// Validate checks the configuration for values that would make a build unsafe or impossible.
func (c Config) Validate() error {
	if !filepath.IsAbs(c.Root) {
		return zerr.With(ErrInvalidConfig, "root", c.Root)
	}
	if c.SourceDir == "" || c.OutputDir == "" {
		return zerr.Wrap(ErrInvalidConfig, "source and output directories must be set")
	}

	out := filepath.Clean(c.OutputPath())
	if out == filepath.Clean(c.Root) || isWithin(c.SourcePath(), out) {
		return zerr.With(ErrUnsafeOutputDir, "output", c.OutputDir)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return zerr.With(ErrInvalidConfig, "port", c.Server.Port)
	}
	if c.Parallelism < 1 {
		return zerr.With(ErrInvalidConfig, "parallelism", c.Parallelism)
	}
	if c.Debounce <= 0 {
		return zerr.With(ErrInvalidConfig, "debounce", c.Debounce.String())
	}

	for _, b := range c.Browsers {
		if _, _, err := ParseBrowser(b); err != nil {
			return err
		}
	}
	return nil
}

// ParseBrowser splits an engine target such as "safari16" or "chrome120.1" into
// its engine name and version.
func ParseBrowser(target string) (engine, version string, err error) {
	for _, name := range knownEngines {
		rest, ok := strings.CutPrefix(target, name)
		if !ok || rest == "" {
			continue
		}
		if rest[0] < '0' || rest[0] > '9' {
			continue
		}
		return name, rest, nil
	}
	return "", "", zerr.With(ErrUnknownBrowser, "browser", target)
}

// isWithin reports whether path equals dir or lives below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
