package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/libdecl/internal/catalog"
	"github.com/vk/libdecl/internal/config"
	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/envsource"
	"github.com/vk/libdecl/internal/registry"
)

// coreModules is the list of declaration sets compiled into the binary.
var coreModules = []registry.Module{
	&catalog.Module{},
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	env      *config.Environment
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. Configuration errors at startup panic; the CLI
// recovers them into a clean error.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load user declaration files into the format-agnostic model first.
	cfgModel := config.NewModel()
	if len(appConfig.DeclPaths) > 0 {
		var err error
		cfgModel, err = loader.Load(ctx, appConfig.DeclPaths...)
		if err != nil {
			panic(fmt.Errorf("failed to load declarations: %w", err))
		}
	}
	logger.Debug("Declaration files loaded.", "targets", cfgModel.Targets())

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Built-in modules registered.", "count", len(modules))

	reg.PopulateFromModel(ctx, cfgModel)
	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "targets", reg.Targets())

	env, err := envsource.Build(ctx, envsource.Options{
		Base:          cfgModel.Environment,
		Files:         appConfig.EnvFiles,
		UseProcessEnv: appConfig.UseProcessEnv,
		Platform:      appConfig.Platform,
		ContainerName: appConfig.ContainerName,
		Groups:        appConfig.Groups,
	})
	if err != nil {
		panic(fmt.Errorf("failed to build environment: %w", err))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		registry: reg,
		env:      env,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Environment returns the environment declarations are evaluated against.
func (a *App) Environment() *config.Environment {
	return a.env
}
