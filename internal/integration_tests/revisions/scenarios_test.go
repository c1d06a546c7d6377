package integration_tests

import (
	"testing"

	"github.com/vk/libdecl/internal/app"
	"github.com/vk/libdecl/internal/declaration"
	"github.com/vk/libdecl/internal/testutil"
)

const linuxEnv = `platform: linux
groups:
  cfitsioLibs: [cfitsio]
  f2cLibs: [f2c]
  cppunitLibs: [cppunit]
  gsllibs: [gsl, gslcblas]
`

const glastEnvNoGSL = `{
  "platform": "win32",
  "container_name": "GlastRelease",
  "groups": {
    "cfitsioLibs": ["cfitsio"],
    "f2cLibs": ["f2c"],
    "cppunitLibs": ["cppunit"],
  },
}`

// TestRevisions_LatestScenarios runs the canonical revision end to end for
// the three reference environments.
func TestRevisions_LatestScenarios(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		files    map[string]string
		cfg      app.Config
		expected []declaration.Action
	}{
		{
			name:  "linux with every group",
			files: map[string]string{"env/linux.yaml": linuxEnv},
			cfg:   app.Config{Target: "st_facilities"},
			expected: []declaration.Action{
				declaration.LinkLibrary("st_facilities"),
				declaration.IncludeDependencyGroup("astroLib"),
				declaration.LinkLibrary("cfitsio"),
				declaration.LinkLibrary("f2c"),
				declaration.LinkLibrary("cppunit"),
				declaration.LinkLibrary("gsl", "gslcblas"),
			},
		},
		{
			name:  "win32 GlastRelease without gsl",
			files: map[string]string{"env/glast.jsonc": glastEnvNoGSL},
			cfg:   app.Config{Target: "st_facilities"},
			expected: []declaration.Action{
				declaration.LinkLibrary("st_facilities"),
				declaration.ResolvePackagePath("st_facilities"),
				declaration.IncludeDependencyGroup("astroLib"),
				declaration.LinkLibrary("cfitsio"),
				declaration.LinkLibrary("f2c"),
				declaration.LinkLibrary("cppunit"),
			},
		},
		{
			name: "win32 GlastRelease dependencies only",
			files: map[string]string{
				"env/1-glast.jsonc": glastEnvNoGSL,
				"env/2-gsl.yaml":    "groups:\n  gsllibs: [gsl, gslcblas]\n",
			},
			cfg: app.Config{Target: "st_facilities", DependenciesOnly: true},
			expected: []declaration.Action{
				declaration.IncludeDependencyGroup("astroLib"),
				declaration.LinkLibrary("cfitsio"),
				declaration.LinkLibrary("f2c"),
				declaration.LinkLibrary("cppunit"),
				declaration.LinkLibrary("gsl", "gslcblas"),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.cfg.ActionsOnly = true
			tc.cfg.Output = app.OutputJSON

			result := testutil.RunIntegrationTest(t, tc.files, tc.cfg)

			testutil.AssertActions(t, tc.expected, testutil.DecodeActions(t, result))
		})
	}
}

// TestRevisions_SupersededRevisionWarns selects the ScienceTools-only
// revision explicitly.
func TestRevisions_SupersededRevisionWarns(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"env/linux.yaml": linuxEnv + "container_name: ScienceTools\n",
	}
	cfg := app.Config{Target: "st_facilities", Revision: 5, ActionsOnly: true, Output: app.OutputJSON}

	result := testutil.RunIntegrationTest(t, files, cfg)

	actions := testutil.DecodeActions(t, result)
	testutil.AssertActions(t, []declaration.Action{
		declaration.LinkLibrary("st_facilities"),
		declaration.IncludeDependencyGroup("astroLib"),
		declaration.LinkLibrary("cfitsio"),
		declaration.LinkLibrary("f2c"),
		declaration.LinkLibrary("cppunit"),
		declaration.LinkLibrary("gsl", "gslcblas"),
	}, actions)
	testutil.AssertLogged(t, result, "level=WARN", "Evaluating a superseded revision.", "revision=5")
}

// TestRevisions_TransitiveIncludes generates revision 1 against user
// declarations for the included targets.
func TestRevisions_TransitiveIncludes(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"env/linux.yaml": linuxEnv,
		"decls/astro.hcl": `
declaration "astroLib" {
  revision "1" {
    link_self {}
    link_group "cfitsioLibs" {}
  }
}`,
		"decls/tip.hcl": `
declaration "tipLib" {
  revision "1" {
    link_self {}
    include "facilitiesLib" {}
  }
}

declaration "facilitiesLib" {
  revision "1" {
    link_self {}
  }
}`,
	}
	cfg := app.Config{Target: "st_facilities", Revision: 1, Strict: true, Output: app.OutputJSON}

	result := testutil.RunIntegrationTest(t, files, cfg)

	plan := testutil.DecodePlan(t, result)
	expectedLinks := []string{"st_facilities", "astroLib", "cfitsio", "tipLib", "facilitiesLib", "f2c"}
	if len(plan.Links) != len(expectedLinks) {
		t.Fatalf("expected links %v, got %v", expectedLinks, plan.Links)
	}
	for i := range expectedLinks {
		if plan.Links[i] != expectedLinks[i] {
			t.Fatalf("expected links %v, got %v", expectedLinks, plan.Links)
		}
	}
	if len(plan.Unresolved) != 0 {
		t.Errorf("expected no unresolved includes, got %v", plan.Unresolved)
	}
	// facilitiesLib is included by tipLib first, so st_facilities' own
	// include of it is skipped.
	if got := len(plan.Included); got != 3 {
		t.Errorf("expected 3 applied includes, got %d: %v", got, plan.Included)
	}
}
