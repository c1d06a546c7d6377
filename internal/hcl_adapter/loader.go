package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/libdecl/internal/config"
	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/declhcl"
	"github.com/vk/libdecl/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// rootSchema describes the top-level blocks any file may contain.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "declaration", LabelNames: []string{"target"}},
		{Type: "environment"},
	},
}

// Load parses every .hcl file found under paths and merges the results in
// the order the files are discovered. A declaration defined again in a later
// file replaces the earlier one.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	model := config.NewModel()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		fileModel, err := l.translateFile(ctx, hclFile, file)
		if err != nil {
			return nil, err
		}
		for target := range fileModel.Declarations {
			if _, exists := model.Declarations[target]; exists {
				logger.Debug("Declaration redefined by later file.", "target", target, "file", file)
			}
		}
		model.Merge(fileModel)
	}

	logger.Debug("HCL loading complete.", "declarations", len(model.Declarations), "has_environment", model.Environment != nil)
	return model, nil
}

// ParseBytes parses a single in-memory HCL source, such as an embedded file.
func (l *Loader) ParseBytes(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return l.translateFile(ctx, hclFile, filename)
}

// translateFile decodes the top-level blocks of one file into a model.
func (l *Loader) translateFile(ctx context.Context, hclFile *hcl.File, filename string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	content, diags := hclFile.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model := config.NewModel()
	for _, block := range content.Blocks.OfType("declaration") {
		decl, declDiags := translateDeclaration(block, filename)
		diags = append(diags, declDiags...)
		if declDiags.HasErrors() {
			continue
		}
		if _, exists := model.Declarations[decl.Target]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate declaration",
				Detail:   fmt.Sprintf("A declaration for %q has already been defined in this file.", decl.Target),
				Subject:  &block.DefRange,
			})
			continue
		}
		model.Declarations[decl.Target] = decl
		logger.Debug("Declaration translated.", "target", decl.Target, "revisions", len(decl.Revisions), "file", filename)
	}

	envBlock, envDiags := declhcl.FindUniqueBlock(content.Blocks, "environment")
	diags = append(diags, envDiags...)
	if envBlock != nil && !envDiags.HasErrors() {
		env, translateDiags := translateEnvironment(envBlock)
		diags = append(diags, translateDiags...)
		model.Environment = env
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filename, diags)
	}
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. Unlike directories, a missing path is an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) != ".hcl" {
				return nil, fmt.Errorf("file %s is not an .hcl file", path)
			}
			add(path)
			continue
		}

		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", path, err)
		}
		for _, f := range files {
			add(f)
		}
	}
	return allFiles, nil
}
