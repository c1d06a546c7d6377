package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vk/libdecl/internal/declaration"
	"github.com/vk/libdecl/internal/orchestrator"
	"gopkg.in/yaml.v3"
)

func writePlan(w io.Writer, format string, plan *orchestrator.Plan) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, plan)
	case OutputYAML:
		return writeYAML(w, plan)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "target: %s (revision %d)\n", plan.Target, plan.Revision)
	if plan.DependenciesOnly {
		b.WriteString("mode: dependencies only\n")
	}
	fmt.Fprintf(&b, "links: %s\n", strings.Join(plan.Links, " "))
	for _, p := range plan.Paths {
		fmt.Fprintf(&b, "path: %s => %s\n", p.Package, p.Path)
	}
	if len(plan.Included) > 0 {
		fmt.Fprintf(&b, "included: %s\n", strings.Join(plan.Included, " "))
	}
	if len(plan.Unresolved) > 0 {
		fmt.Fprintf(&b, "unresolved: %s\n", strings.Join(plan.Unresolved, " "))
	}
	b.WriteString("actions:\n")
	for _, e := range plan.Entries {
		fmt.Fprintf(&b, "  [%s] %s", e.Source, e.Action)
		if e.Unresolved {
			b.WriteString(" (unresolved)")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeActions(w io.Writer, format string, actions []declaration.Action) error {
	if actions == nil {
		actions = []declaration.Action{}
	}
	switch format {
	case OutputJSON:
		return writeJSON(w, actions)
	case OutputYAML:
		return writeYAML(w, actions)
	}
	for _, a := range actions {
		if _, err := fmt.Fprintln(w, a); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
