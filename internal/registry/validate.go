package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/libdecl/internal/ctxlog"
)

// Validate checks the registered declarations for consistency. A declaration
// without revisions is an error. An include naming an unregistered target is
// only a warning, since the orchestrator may still treat it as unresolved.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, target := range r.Targets() {
		decl, _ := r.Lookup(target)
		if len(decl.Revisions) == 0 {
			errs = append(errs, fmt.Sprintf("declaration '%s': no revisions defined", target))
			continue
		}

		for _, include := range decl.Includes() {
			if _, ok := r.Lookup(include); !ok {
				logger.Warn("Declaration includes an unregistered target.", "target", target, "include", include)
			}
		}

		for _, rev := range decl.Revisions {
			if rev.Superseded {
				logger.Debug("Declaration carries a superseded revision.", "target", target, "revision", rev.Number)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
