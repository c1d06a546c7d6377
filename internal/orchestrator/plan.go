package orchestrator

import "github.com/vk/libdecl/internal/declaration"

// Entry is one executed action together with the declaration that emitted
// it.
type Entry struct {
	declaration.Action `yaml:",inline"`

	// Source is the target whose declaration emitted the action.
	Source string `json:"source" yaml:"source"`

	// Path is the resolved directory of a resolve_package_path action.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Unresolved marks an include of a target with no declaration.
	Unresolved bool `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// ResolvedPath is a package and the directory it was found in.
type ResolvedPath struct {
	Package string `json:"package" yaml:"package"`
	Path    string `json:"path" yaml:"path"`
}

// Plan is the ordered record of one generation run.
type Plan struct {
	Target           string `json:"target" yaml:"target"`
	Revision         int    `json:"revision" yaml:"revision"`
	DependenciesOnly bool   `json:"dependencies_only" yaml:"dependencies_only"`

	// Links holds every linked library once, in first-registered order.
	Links []string `json:"links" yaml:"links"`

	Paths []ResolvedPath `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Included lists the declarations applied through includes.
	Included []string `json:"included,omitempty" yaml:"included,omitempty"`

	// Unresolved lists included targets that have no declaration.
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`

	Entries []Entry `json:"entries" yaml:"entries"`
}
