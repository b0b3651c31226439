package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/fleet/internal/format"
)

// Hook defines a command run after a fleet operation
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description"`
	On          []string `toml:"on"` // operations this hook runs on (empty = only via --hook)
}

// PreserveConfig selects git-ignored files copied into new linked worktrees
type PreserveConfig struct {
	Patterns []string `toml:"patterns"` // basename globs, e.g. ".env*"
	Exclude  []string `toml:"exclude"`  // path segments to skip, e.g. "node_modules"
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// Config holds the fleet configuration
type Config struct {
	Root           string            `toml:"root"`
	Exclude        []string          `toml:"exclude"`
	BaseBranch     string            `toml:"base_branch"`
	MergeStrategy  string            `toml:"merge_strategy"`
	WorktreeFormat string            `toml:"worktree_format"`
	SharedFiles    []string          `toml:"shared_files"`
	ToolRepo       string            `toml:"tool_repo"`
	Theme          string            `toml:"theme"`
	Hosts          map[string]string `toml:"hosts"` // domain -> forge type mapping
	Preserve       PreserveConfig    `toml:"preserve"`
	Hooks          HooksConfig       `toml:"-"`
}

const (
	// DefaultBaseBranch is the integration branch feature branches start from
	DefaultBaseBranch = "dev"

	// DefaultMergeStrategy is used for PR merges and auto-merge requests
	DefaultMergeStrategy = "merge"

	// DefaultWorktreeFormat names the sibling worktree root
	DefaultWorktreeFormat = format.DefaultRootFormat

	// DefaultToolRepo is the name of the repository fleet itself lives in
	DefaultToolRepo = "fleet"
)

// ValidThemeNames lists the color themes of the theme setting
var ValidThemeNames = []string{"default", "dracula", "gruvbox", "none", "nord"}

// DefaultSharedFiles are fleet-level files copied into new worktree roots
var DefaultSharedFiles = []string{"AGENTS.md", "CLAUDE.md"}

// Default returns the default configuration
func Default() Config {
	return Config{
		BaseBranch:     DefaultBaseBranch,
		MergeStrategy:  DefaultMergeStrategy,
		WorktreeFormat: DefaultWorktreeFormat,
		SharedFiles:    append([]string(nil), DefaultSharedFiles...),
		ToolRepo:       DefaultToolRepo,
		Hooks:          HooksConfig{Hooks: map[string]Hook{}},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location.
// FLEET_CONFIG overrides ~/.config/fleet/config.toml.
func Path() (string, error) {
	if p := os.Getenv("FLEET_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fleet", "config.toml"), nil
}

// rawConfig is used for initial TOML parsing before processing hooks
type rawConfig struct {
	Root           string            `toml:"root"`
	Exclude        []string          `toml:"exclude"`
	BaseBranch     string            `toml:"base_branch"`
	MergeStrategy  string            `toml:"merge_strategy"`
	WorktreeFormat string            `toml:"worktree_format"`
	SharedFiles    []string          `toml:"shared_files"`
	ToolRepo       string            `toml:"tool_repo"`
	Theme          string            `toml:"theme"`
	Hosts          map[string]string `toml:"hosts"`
	Preserve       PreserveConfig    `toml:"preserve"`
	Hooks          map[string]any    `toml:"hooks"`
}

// Load reads config from Path() and applies environment overrides.
// Returns Default() if the file doesn't exist (no error).
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default())
	}
	return LoadFile(path)
}

// LoadFile reads config from path and applies environment overrides.
// A missing file yields Default(); an invalid one yields Default() and an error.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(Default())
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Default(), err
	}
	return applyEnv(cfg)
}

// Parse decodes and validates TOML config data, filling defaults for empty values
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	cfg.Root = raw.Root
	cfg.Exclude = raw.Exclude
	cfg.Hosts = raw.Hosts
	cfg.Theme = raw.Theme
	cfg.Preserve = raw.Preserve
	cfg.Hooks = parseHooksConfig(raw.Hooks)
	if raw.BaseBranch != "" {
		cfg.BaseBranch = raw.BaseBranch
	}
	if raw.MergeStrategy != "" {
		cfg.MergeStrategy = raw.MergeStrategy
	}
	if raw.WorktreeFormat != "" {
		cfg.WorktreeFormat = raw.WorktreeFormat
	}
	if raw.SharedFiles != nil {
		cfg.SharedFiles = raw.SharedFiles
	}
	if raw.ToolRepo != "" {
		cfg.ToolRepo = raw.ToolRepo
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}

	root, err := ExpandPath(cfg.Root)
	if err != nil {
		return Default(), fmt.Errorf("expand root: %w", err)
	}
	cfg.Root = root

	return cfg, nil
}

func (c *Config) validate() error {
	if err := ValidatePath(c.Root, "root"); err != nil {
		return err
	}

	switch c.MergeStrategy {
	case "merge", "squash", "rebase":
	default:
		return fmt.Errorf("invalid merge_strategy %q: must be \"merge\", \"squash\", or \"rebase\"", c.MergeStrategy)
	}

	if c.Theme != "" && !slices.Contains(ValidThemeNames, c.Theme) {
		return fmt.Errorf("invalid theme %q (available: %s)", c.Theme, strings.Join(ValidThemeNames, ", "))
	}

	for host, forgeType := range c.Hosts {
		if forgeType != "github" && forgeType != "gitlab" {
			return fmt.Errorf("invalid forge type %q for host %q: must be \"github\" or \"gitlab\"", forgeType, host)
		}
	}

	if err := format.ValidateFormat(c.WorktreeFormat); err != nil {
		return fmt.Errorf("invalid worktree_format: %w", err)
	}

	for i, pat := range c.Preserve.Patterns {
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("invalid preserve.patterns[%d] %q: %w", i, pat, err)
		}
	}

	for _, f := range c.SharedFiles {
		if f == "" || filepath.Base(f) != f {
			return fmt.Errorf("shared_files entry %q must be a plain file name", f)
		}
	}

	return nil
}

// applyEnv applies FLEET_ROOT on top of file settings
func applyEnv(cfg Config) (Config, error) {
	root := os.Getenv("FLEET_ROOT")
	if root == "" {
		return cfg, nil
	}
	if err := ValidatePath(root, "FLEET_ROOT"); err != nil {
		return cfg, err
	}
	expanded, err := ExpandPath(root)
	if err != nil {
		return cfg, fmt.Errorf("expand FLEET_ROOT: %w", err)
	}
	cfg.Root = expanded
	return cfg, nil
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) HooksConfig {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for key, value := range raw {
		hookMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		hc.Hooks[key] = hook
	}

	return hc
}
