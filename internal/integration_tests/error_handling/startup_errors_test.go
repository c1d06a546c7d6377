package integration_tests

import (
	"strings"
	"testing"

	"github.com/vk/libdecl/internal/app"
	"github.com/vk/libdecl/internal/testutil"
)

// TestErrorHandling_StartupIsRejected covers configuration problems that stop
// the app before any declaration is evaluated.
func TestErrorHandling_StartupIsRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		files     map[string]string
		expectErr string
	}{
		{
			name: "invalid hcl",
			files: map[string]string{
				"decls/broken.hcl": `
declaration "astroLib" {
  revision "1" {
  // Missing closing braces here
`,
			},
			expectErr: "failed to parse",
		},
		{
			name: "condition over an unknown variable",
			files: map[string]string{
				"decls/astro.hcl": `
declaration "astroLib" {
  revision "1" {
    link_self {}
    resolve_path "astroLib" {
      when = os == "windows"
    }
  }
}`,
			},
			expectErr: "Unknown condition variable",
		},
		{
			name: "environment file with a typo",
			files: map[string]string{
				"env/linux.yaml": "platfrom: linux\n",
			},
			expectErr: "failed to build environment",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := testutil.RunIntegrationTest(t, tc.files, app.Config{Target: "st_facilities"})

			if result.Err == nil {
				t.Fatal("expected a startup error, but the run succeeded")
			}
			if !strings.Contains(result.Err.Error(), "application startup panicked") {
				t.Errorf("expected a recovered startup panic, got: %v", result.Err)
			}
			if !strings.Contains(result.Err.Error(), tc.expectErr) {
				t.Errorf("expected error to contain %q, got: %v", tc.expectErr, result.Err)
			}
		})
	}
}
