package config

import (
	"maps"
	"slices"

	"github.com/vk/libdecl/internal/declaration"
)

// Model is the unified, format-agnostic representation of everything loaded
// from declaration and environment files.
type Model struct {
	Declarations map[string]*declaration.Declaration
	Environment  *Environment
}

// NewModel returns an empty, initialized Model.
func NewModel() *Model {
	return &Model{
		Declarations: make(map[string]*declaration.Declaration),
	}
}

// Merge folds other into m. Declarations from other replace those with the
// same target; environments are merged with Environment.Merge.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	maps.Copy(m.Declarations, other.Declarations)
	if other.Environment != nil {
		if m.Environment == nil {
			m.Environment = NewEnvironment()
		}
		m.Environment.Merge(other.Environment)
	}
}

// Targets returns the declared targets in sorted order.
func (m *Model) Targets() []string {
	return slices.Sorted(maps.Keys(m.Declarations))
}

// containerNameAlias is the spelling used inside declaration and
// environment files.
const containerNameAlias = "container_name"

// Environment is the build configuration a declaration is evaluated against.
// It implements declaration.Environment.
type Environment struct {
	Platform      string
	ContainerName string

	// Fields holds any further named settings.
	Fields map[string]string

	// Groups maps a library-group name to its ordered libraries.
	Groups map[string][]string
}

// NewEnvironment returns an empty, initialized Environment.
func NewEnvironment() *Environment {
	return &Environment{
		Fields: make(map[string]string),
		Groups: make(map[string][]string),
	}
}

// Field returns the named field; absent fields read as "".
func (e *Environment) Field(name string) string {
	if e == nil {
		return ""
	}
	switch name {
	case declaration.FieldPlatform:
		return e.Platform
	case declaration.FieldContainerName, containerNameAlias:
		return e.ContainerName
	}
	return e.Fields[name]
}

// Group returns a copy of the named group's libraries.
func (e *Environment) Group(name string) ([]string, bool) {
	if e == nil {
		return nil, false
	}
	libs, ok := e.Groups[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(libs), true
}

// SetGroup defines or replaces a library group.
func (e *Environment) SetGroup(name string, libs ...string) {
	if e.Groups == nil {
		e.Groups = make(map[string][]string)
	}
	e.Groups[name] = slices.Clone(libs)
}

// Merge overlays other onto e. Non-empty platform, container name and fields
// replace the current values; groups replace groups of the same name.
func (e *Environment) Merge(other *Environment) {
	if other == nil {
		return
	}
	if other.Platform != "" {
		e.Platform = other.Platform
	}
	if other.ContainerName != "" {
		e.ContainerName = other.ContainerName
	}
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	for k, v := range other.Fields {
		if v != "" {
			e.Fields[k] = v
		}
	}
	for name, libs := range other.Groups {
		e.SetGroup(name, libs...)
	}
}

// GroupNames returns the defined group names in sorted order.
func (e *Environment) GroupNames() []string {
	if e == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(e.Groups))
}
