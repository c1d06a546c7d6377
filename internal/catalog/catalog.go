// Package catalog holds the built-in dependency declarations compiled into
// the binary.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/libdecl/internal/config"
	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/declaration"
	"github.com/vk/libdecl/internal/hcl_adapter"
	"github.com/vk/libdecl/internal/registry"
)

// StFacilities is the target of the st_facilities declaration.
const StFacilities = "st_facilities"

//go:embed st_facilities.hcl
var stFacilitiesHCL []byte

// sources lists the embedded declaration files by name.
var sources = map[string][]byte{
	"st_facilities.hcl": stFacilitiesHCL,
}

// Load parses every embedded declaration file into one model.
func Load(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	loader := hcl_adapter.NewLoader()
	model := config.NewModel()

	for _, name := range slices.Sorted(maps.Keys(sources)) {
		m, err := loader.ParseBytes(ctx, sources[name], "catalog/"+name)
		if err != nil {
			return nil, fmt.Errorf("built-in catalog: %w", err)
		}
		model.Merge(m)
		logger.Debug("Built-in declarations loaded.", "file", name, "targets", m.Targets())
	}
	return model, nil
}

// Declarations returns the built-in declarations sorted by target.
func Declarations(ctx context.Context) ([]*declaration.Declaration, error) {
	model, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	decls := make([]*declaration.Declaration, 0, len(model.Declarations))
	for _, target := range model.Targets() {
		decls = append(decls, model.Declarations[target])
	}
	return decls, nil
}

// Module implements the registry.Module interface for the built-in catalog.
type Module struct{}

// Register adds every built-in declaration to r. The embedded sources are
// part of the binary, so a failure to parse them panics.
func (m *Module) Register(r *registry.Registry) {
	decls, err := Declarations(context.Background())
	if err != nil {
		panic(err)
	}
	for _, d := range decls {
		r.Register(d)
	}
}
