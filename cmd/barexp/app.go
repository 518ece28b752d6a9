// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/barexp/barexp/internal/config"
)

type (
	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive an App and resolve configuration through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// loadDefaults seeds every configuration load; flags override it.
		loadDefaults config.LoadOptions
		// cfg is the configuration resolved by the root pre-run hook.
		cfg *config.Config
		// verbose is the effective verbosity (flag or ui.verbose).
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
		// LoadOptions seeds configuration loading (tests isolate the user
		// config directory through it).
		LoadOptions config.LoadOptions
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App from deps, filling in production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:       deps.Config,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
		loadDefaults: deps.LoadOptions,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig resolves the configuration for one invocation.
func (a *App) loadConfig(ctx context.Context, configPath string) (*config.Config, error) {
	opts := a.loadDefaults
	if configPath != "" {
		opts.ConfigFilePath = configPath
	}
	return a.Config.Load(ctx, opts)
}

// effectiveConfig returns the configuration resolved by the root command, or the
// defaults when a subcommand runs without it.
func (a *App) effectiveConfig() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}
