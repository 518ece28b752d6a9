// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/barexp/barexp/internal/cueutil"
	"github.com/barexp/barexp/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "barexp"
	// EnvPrefix prefixes environment overrides (BAREXP_SORT=false).
	EnvPrefix = "BAREXP"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// ProjectConfigFile is the per-project config file.
	ProjectConfigFile = AppName + "." + ConfigFileExt
)

// ErrConfigExists is returned by WriteDefault when the target already exists.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the barexp user configuration directory using
// platform-specific conventions.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions resolves, parses and validates the configuration.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, loadError(path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, loadError(path, fmt.Errorf("failed to parse config: %w", err))
	}
	cfg.Source = path

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Run 'barexp config show' to inspect the effective values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, nil
}

// newViper creates a Viper instance carrying every default and the
// BAREXP_ environment binding.
func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("root", d.Root)
	v.SetDefault("source_ext", string(d.SourceExt))
	v.SetDefault("aggregator_name", string(d.AggregatorName))
	v.SetDefault("entry_names", fromFileNames(d.EntryNames))
	v.SetDefault("exclude", fromFileNames(d.Exclude))
	v.SetDefault("sort", d.Sort)
	v.SetDefault("prune_stale", d.PruneStale)
	v.SetDefault("emit_directive", d.EmitDirective)
	v.SetDefault("directive_prefix", d.DirectivePrefix)
	v.SetDefault("include_root", d.IncludeRoot)
	v.SetDefault("lock", d.Lock)
	v.SetDefault("exports.patterns", d.Exports.Patterns)
	v.SetDefault("exports.output_file", string(d.Exports.OutputFile))
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.ignore", d.Watch.Ignore)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// resolvePath picks the file to load. An explicit path must exist; the
// implicit locations are optional.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'barexp config init' to create a configuration file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	projectPath := filepath.Join(opts.BaseDir, ProjectConfigFile)
	if fileExists(projectPath) {
		return projectPath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	userPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(userPath) {
		return userPath, nil
	}

	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Decoding goes to a map so that unset fields keep Viper's defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](
		configSchema,
		data,
		"#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'barexp config --help' for configuration options").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// barexp configuration file\n")
	sb.WriteString("// Unset fields keep their defaults; BAREXP_* environment variables override.\n\n")

	if cfg.Root != "" {
		fmt.Fprintf(&sb, "root: %q\n", cfg.Root)
	}
	fmt.Fprintf(&sb, "source_ext: %q\n", cfg.SourceExt)
	fmt.Fprintf(&sb, "aggregator_name: %q\n", cfg.AggregatorName)
	fmt.Fprintf(&sb, "entry_names: %s\n", cueList(fromFileNames(cfg.EntryNames)))
	fmt.Fprintf(&sb, "exclude: %s\n", cueList(fromFileNames(cfg.Exclude)))
	fmt.Fprintf(&sb, "sort: %v\n", cfg.Sort)
	fmt.Fprintf(&sb, "prune_stale: %v\n", cfg.PruneStale)
	fmt.Fprintf(&sb, "emit_directive: %v\n", cfg.EmitDirective)
	fmt.Fprintf(&sb, "directive_prefix: %q\n", cfg.DirectivePrefix)
	fmt.Fprintf(&sb, "include_root: %v\n", cfg.IncludeRoot)
	fmt.Fprintf(&sb, "lock: %v\n", cfg.Lock)

	sb.WriteString("\nexports: {\n")
	fmt.Fprintf(&sb, "\tpatterns: %s\n", cueList(cfg.Exports.Patterns))
	fmt.Fprintf(&sb, "\toutput_file: %q\n", cfg.Exports.OutputFile)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce.String())
	fmt.Fprintf(&sb, "\tignore: %s\n", cueList(cfg.Watch.Ignore))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
