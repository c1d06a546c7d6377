// Package envsource assembles the environment a declaration is evaluated
// against from files, process variables and explicit overrides.
package envsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/vk/libdecl/internal/config"
	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/hcl_adapter"
	"gopkg.in/yaml.v3"
)

// Process environment variables read when Options.UseProcessEnv is set.
const (
	EnvPlatform      = "PLATFORM"
	EnvContainerName = "CONTAINERNAME"
)

// Options controls how Build assembles an environment. Later sources
// override earlier ones: Base, then Files in order, then the process
// environment, then the explicit overrides.
type Options struct {
	// Base is typically the environment block found in declaration files.
	Base *config.Environment

	// Files are environment files (.hcl, .json, .jsonc, .yaml, .yml).
	Files []string

	UseProcessEnv bool
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Platform and ContainerName override every other source when non-nil,
	// even with an empty value.
	Platform      *string
	ContainerName *string

	// Groups define or replace library groups.
	Groups map[string][]string
}

// Build assembles the environment described by opts. A platform that no
// source sets defaults to DefaultPlatform.
func Build(ctx context.Context, opts Options) (*config.Environment, error) {
	logger := ctxlog.FromContext(ctx)
	env := config.NewEnvironment()
	env.Merge(opts.Base)

	for _, path := range opts.Files {
		fileEnv, err := LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		env.Merge(fileEnv)
		logger.Debug("Environment file applied.", "path", path, "groups", fileEnv.GroupNames())
	}

	if opts.UseProcessEnv {
		lookup := opts.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		if v, ok := lookup(EnvPlatform); ok && v != "" {
			env.Platform = v
		}
		if v, ok := lookup(EnvContainerName); ok && v != "" {
			env.ContainerName = v
		}
	}

	if opts.Platform != nil {
		env.Platform = *opts.Platform
	}
	if opts.ContainerName != nil {
		env.ContainerName = *opts.ContainerName
	}
	for name, libs := range opts.Groups {
		env.SetGroup(name, libs...)
	}

	if env.Platform == "" {
		env.Platform = DefaultPlatform()
		logger.Debug("Platform defaulted to host.", "platform", env.Platform)
	}

	logger.Debug("Environment built.",
		"platform", env.Platform,
		"container_name", env.ContainerName,
		"groups", env.GroupNames(),
	)
	return env, nil
}

// DefaultPlatform names the host platform the way declarations spell it.
func DefaultPlatform() string {
	return platformName(runtime.GOOS)
}

func platformName(goos string) string {
	if goos == "windows" {
		return "win32"
	}
	return goos
}

// fileEnvironment is the JSON and YAML shape of an environment file.
type fileEnvironment struct {
	Platform      string              `json:"platform" yaml:"platform"`
	ContainerName string              `json:"container_name" yaml:"container_name"`
	Fields        map[string]string   `json:"fields" yaml:"fields"`
	Groups        map[string][]string `json:"groups" yaml:"groups"`
}

func (f *fileEnvironment) environment() *config.Environment {
	env := config.NewEnvironment()
	env.Platform = f.Platform
	env.ContainerName = f.ContainerName
	for k, v := range f.Fields {
		env.Fields[k] = v
	}
	for name, libs := range f.Groups {
		env.SetGroup(name, libs...)
	}
	return env
}

// LoadFile reads one environment file, choosing the format by extension.
func LoadFile(ctx context.Context, path string) (*config.Environment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".hcl" {
		return loadHCL(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading environment file %s: %w", path, err)
	}

	var raw fileEnvironment
	switch ext {
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		err = dec.Decode(&raw)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("environment file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing environment file %s: %w", path, err)
	}
	return raw.environment(), nil
}

func loadHCL(ctx context.Context, path string) (*config.Environment, error) {
	model, err := hcl_adapter.NewLoader().Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if model.Environment == nil {
		return nil, fmt.Errorf("environment file %s: no environment block", path)
	}
	return model.Environment, nil
}

// ParseGroup parses a group definition of the form `name=lib1,lib2`. An
// empty library list defines an empty group.
func ParseGroup(s string) (string, []string, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid group %q: expected name=lib1,lib2", s)
	}
	libs := []string{}
	for _, lib := range strings.Split(list, ",") {
		if lib = strings.TrimSpace(lib); lib != "" {
			libs = append(libs, lib)
		}
	}
	return name, libs, nil
}
