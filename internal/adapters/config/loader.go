// Package config loads kiln.yaml into the immutable build configuration.
package config

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a Loader reading from the real file system.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load walks up from cwd looking for kiln.yaml. Without one the defaults
// rooted at cwd are used. The result is validated before it is returned.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cwd = filepath.Clean(cwd)

	configPath, found := l.findConfiguration(cwd)
	if !found {
		cfg := domain.DefaultConfig(cwd)
		return cfg, cfg.Validate()
	}

	var file Kilnfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return domain.Config{}, err
	}

	cfg, err := l.toConfig(configPath, &file)
	if err != nil {
		return domain.Config{}, zerr.With(err, "config", configPath)
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, zerr.With(err, "config", configPath)
	}
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	for dir := cwd; ; {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (l *Loader) toConfig(configPath string, file *Kilnfile) (domain.Config, error) {
	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn("kiln.yaml declares version " + file.Version + ", reading it as version " + SupportedVersion)
	}

	cfg := domain.DefaultConfig(resolveRoot(configPath, file.Root))

	if file.Source != "" {
		cfg.SourceDir = filepath.Clean(file.Source)
	}
	if file.Output != "" {
		cfg.OutputDir = filepath.Clean(file.Output)
	}
	if file.Vendors != nil {
		cfg.Vendors = file.Vendors
	}
	if file.Browsers != nil {
		cfg.Browsers = file.Browsers
	}
	if file.Server != nil {
		cfg = cfg.WithServer(file.Server.Host, file.Server.Port)
	}
	if file.Debounce != "" {
		d, err := time.ParseDuration(file.Debounce)
		if err != nil {
			return cfg, zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "debounce", file.Debounce)
		}
		cfg.Debounce = d
	}
	if file.Parallelism != 0 {
		cfg.Parallelism = file.Parallelism
	}

	return cfg, nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML decodes the config strictly: unknown keys are an error.
// An empty file decodes to the zero Kilnfile.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Kilnfile) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "config", configPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "config", configPath)
	}
	return nil
}
