package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vk/libdecl/internal/app"
	"github.com/vk/libdecl/internal/catalog"
	"github.com/vk/libdecl/internal/envsource"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("libdecl", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprintf(output, `
libdecl - Evaluates library dependency declarations.

Usage:
  libdecl [options] [TARGET]

Arguments:
  TARGET
    Library target whose declaration is generated (default %q).

Options:
`, catalog.StFacilities)
		flagSet.PrintDefaults()
	}

	declPaths := flagSet.StringArrayP("decl", "d", nil, "Declaration .hcl file or directory. Repeatable; later files override earlier ones.")
	envFiles := flagSet.StringArrayP("env", "e", nil, "Environment file (.hcl, .json, .jsonc, .yaml). Repeatable.")
	platform := flagSet.String("platform", "", "Platform to evaluate for, e.g. 'win32' or 'linux'. Defaults to the host platform.")
	container := flagSet.String("container", "", "Container name, e.g. 'GlastRelease' or 'ScienceTools'.")
	groups := flagSet.StringArray("group", nil, "Library group as name=lib1,lib2. Repeatable.")
	noOSEnv := flagSet.Bool("no-os-env", false, "Ignore the PLATFORM and CONTAINERNAME environment variables.")
	revision := flagSet.IntP("revision", "r", 0, "Declaration revision to evaluate. 0 is the latest.")
	depsOnly := flagSet.Bool("deps-only", false, "Emit only dependencies, without the target itself.")
	strict := flagSet.Bool("strict", false, "Fail when an included declaration does not exist.")
	packageRoots := flagSet.StringArray("package-root", nil, "Directory searched for package paths. Repeatable.")
	outputFormat := flagSet.StringP("output", "o", app.OutputText, "Output format. Options: 'text', 'json' or 'yaml'.")
	actionsOnly := flagSet.Bool("actions-only", false, "Print the evaluated actions without executing them.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one TARGET, got %d", flagSet.NArg())
	}
	target := catalog.StFacilities
	if flagSet.NArg() == 1 {
		target = flagSet.Arg(0)
	}

	groupMap := make(map[string][]string, len(*groups))
	for _, g := range *groups {
		name, libs, err := envsource.ParseGroup(g)
		if err != nil {
			return nil, false, usageError("%s", err.Error())
		}
		groupMap[name] = libs
	}

	cfg := app.Config{
		Target:           target,
		DeclPaths:        *declPaths,
		EnvFiles:         *envFiles,
		Groups:           groupMap,
		UseProcessEnv:    !*noOSEnv,
		Revision:         *revision,
		DependenciesOnly: *depsOnly,
		Strict:           *strict,
		PackageRoots:     *packageRoots,
		Output:           strings.ToLower(*outputFormat),
		ActionsOnly:      *actionsOnly,
		LogFormat:        strings.ToLower(*logFormat),
		LogLevel:         strings.ToLower(*logLevel),
	}
	if flagSet.Changed("platform") {
		cfg.Platform = platform
	}
	if flagSet.Changed("container") {
		cfg.ContainerName = container
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "target", config.Target, "revision", config.Revision)
	return config, false, nil
}
