// Package config loads the nirikit daemon configuration: a YAML file with
// recursive includes describing scratchpads and daemon settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings holds daemon-level options.
type Settings struct {
	NotifyLevel string `yaml:"notify_level"` // "none" | "error" | "all"
	WatchConfig *bool  `yaml:"watch_config"` // nil means default (true)
}

// Match describes how a scratchpad window is recognized. A value beginning
// with "/" is a regular expression, otherwise it is an exact match.
type Match struct {
	AppID string `yaml:"app_id"`
	Title string `yaml:"title"`
}

// Position maps output names to a placement value: "center" or "x,y" where
// coordinates may be pixels or percentages. A bare string in YAML applies to
// every output under the "*" key.
type Position map[string]string

// UnmarshalYAML accepts either a scalar or an output→value mapping.
func (p *Position) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*p = Position{"*": s}
		return nil
	case yaml.MappingNode:
		var m map[string]string
		if err := value.Decode(&m); err != nil {
			return err
		}
		*p = m
		return nil
	default:
		return fmt.Errorf("position must be a string or a mapping (line %d)", value.Line)
	}
}

// For returns the placement value for an output, falling back to "*".
func (p Position) For(output string) (string, bool) {
	if v, ok := p[output]; ok {
		return v, true
	}
	v, ok := p["*"]
	return v, ok
}

// Scratchpad is one configured scratchpad window.
type Scratchpad struct {
	Name     string   `yaml:"name"`
	Command  string   `yaml:"command"`
	Match    Match    `yaml:"match"`
	Size     string   `yaml:"size"` // "WxH", sides in px or %
	Position Position `yaml:"position"`
	Float    *bool    `yaml:"float"` // nil means default (true)
}

// Floating reports whether the scratchpad should be floated when shown.
func (s Scratchpad) Floating() bool {
	return s.Float == nil || *s.Float
}

// Config is the merged daemon configuration.
type Config struct {
	Include     []string     `yaml:"include"`
	Settings    Settings     `yaml:"settings"`
	Scratchpads []Scratchpad `yaml:"scratchpads"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Settings: Settings{NotifyLevel: "error"},
	}
}

// WatchEnabled reports whether config hot reload is on (default true).
func (c Config) WatchEnabled() bool {
	return c.Settings.WatchConfig == nil || *c.Settings.WatchConfig
}

// Scratchpad returns the scratchpad with the given name.
func (c Config) Scratchpad(name string) (Scratchpad, bool) {
	for _, sp := range c.Scratchpads {
		if sp.Name == name {
			return sp, true
		}
	}
	return Scratchpad{}, false
}

// Names returns the configured scratchpad names in order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.Scratchpads))
	for _, sp := range c.Scratchpads {
		names = append(names, sp.Name)
	}
	return names
}

// DefaultPath returns ~/.config/nirikit/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nirikit", "config.yaml"), nil
}

// Result is a loaded configuration plus everything the watcher and
// diagnostics need to know about how it was assembled.
type Result struct {
	Config   Config
	Files    []string // every file that was read, load order
	Warnings []string // non-fatal issues (missing includes, duplicates, bad entries)
}

// Load reads the file at path and all of its includes. A missing root file
// yields defaults with a warning. Syntax errors in any file are fatal.
func Load(path string) (*Result, error) {
	res := &Result{Config: Defaults()}
	seen := make(map[string]bool)
	if err := loadInto(res, seen, path, true); err != nil {
		return nil, err
	}
	validate(res)
	return res, nil
}

// loadInto merges the file at path into res. Includes load depth-first
// before the including file's own entries, so later (outer) content wins.
func loadInto(res *Result, seen map[string]bool, path string, root bool) error {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return err
	}
	if seen[abs] {
		res.Warnings = append(res.Warnings, "include cycle: "+abs+" already loaded, skipping")
		return nil
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if root {
				res.Warnings = append(res.Warnings, "config file "+abs+" not found, using defaults")
				return nil
			}
			res.Warnings = append(res.Warnings, "include "+abs+" not found, skipping")
			return nil
		}
		return fmt.Errorf("reading config %s: %w", abs, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return &ParseError{Path: abs, Err: err}
	}

	for _, inc := range file.Include {
		incPath := expandHome(inc)
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(filepath.Dir(abs), incPath)
		}
		if err := loadInto(res, seen, incPath, false); err != nil {
			return err
		}
	}

	res.Files = append(res.Files, abs)
	merge(&res.Config, file)
	return nil
}

// merge applies file's entries over dst. Scratchpads replace earlier ones
// with the same name; non-empty settings override.
func merge(dst *Config, file Config) {
	if file.Settings.NotifyLevel != "" {
		dst.Settings.NotifyLevel = file.Settings.NotifyLevel
	}
	if file.Settings.WatchConfig != nil {
		dst.Settings.WatchConfig = file.Settings.WatchConfig
	}

	for _, sp := range file.Scratchpads {
		replaced := false
		for i := range dst.Scratchpads {
			if dst.Scratchpads[i].Name == sp.Name {
				dst.Scratchpads[i] = sp
				replaced = true
				break
			}
		}
		if !replaced {
			dst.Scratchpads = append(dst.Scratchpads, sp)
		}
	}
}

// validate drops unusable scratchpad entries, recording a warning for each.
func validate(res *Result) {
	level := res.Config.Settings.NotifyLevel
	if level != "none" && level != "error" && level != "all" {
		res.Warnings = append(res.Warnings, "unknown notify_level "+strconv.Quote(level)+", using \"error\"")
		res.Config.Settings.NotifyLevel = "error"
	}

	kept := res.Config.Scratchpads[:0]
	for _, sp := range res.Config.Scratchpads {
		switch {
		case sp.Name == "":
			res.Warnings = append(res.Warnings, "scratchpad without a name, skipping")
		case sp.Match.AppID == "" && sp.Match.Title == "":
			res.Warnings = append(res.Warnings, "scratchpad "+sp.Name+" has no match rule, skipping")
		default:
			kept = append(kept, sp)
		}
	}
	res.Config.Scratchpads = kept
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
