package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/libdecl/internal/declaration"
)

const declarationHCL = `
declaration "st_facilities" {
  revision "2" {
    link_self {}
    include "astroLib" {}
    link_group "cfitsioLibs" {}
  }

  revision "6" {
    note = "gsl is optional"

    link_self {}
    resolve_path "st_facilities" {
      self_only = true
      when      = platform == "win32" && container_name == "GlastRelease"
    }
    include "astroLib" {}
    link_group "cfitsioLibs" {}
    link_group "gsllibs" {
      optional = true
    }
  }
}
`

const environmentHCL = `
environment {
  platform       = "win32"
  container_name = "GlastRelease"
  fields = {
    arch = "x86"
  }
  groups = {
    cfitsioLibs = ["cfitsio"]
    gsllibs     = ["gsl", "gslcblas"]
    empty       = []
  }
}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestLoader_LoadDeclarationAndEnvironment(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"decls/st_facilities.hcl": declarationHCL,
		"env.hcl":                 environmentHCL,
		"decls/notes.txt":         "ignored",
	})

	model, err := NewLoader().Load(context.Background(), filepath.Join(root, "decls"), filepath.Join(root, "env.hcl"))
	require.NoError(t, err)

	decl := model.Declarations["st_facilities"]
	require.NotNil(t, decl)
	require.Len(t, decl.Revisions, 2)
	assert.Equal(t, 2, decl.Revisions[0].Number)

	latest := decl.Latest()
	assert.Equal(t, 6, latest.Number)
	assert.Equal(t, "gsl is optional", latest.Note)
	require.Len(t, latest.Steps, 5)

	kinds := make([]declaration.StepKind, 0, len(latest.Steps))
	for _, s := range latest.Steps {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []declaration.StepKind{
		declaration.StepLinkSelf,
		declaration.StepResolvePath,
		declaration.StepInclude,
		declaration.StepLinkGroup,
		declaration.StepLinkGroup,
	}, kinds, "steps must keep source order")

	assert.True(t, latest.Steps[1].SelfOnly)
	assert.NotNil(t, latest.Steps[1].When)
	assert.True(t, latest.Steps[4].Optional)
	assert.False(t, latest.Steps[3].Optional)

	env := model.Environment
	require.NotNil(t, env)
	assert.Equal(t, "win32", env.Platform)
	assert.Equal(t, "GlastRelease", env.ContainerName)
	assert.Equal(t, "x86", env.Field("arch"))
	gsl, ok := env.Group("gsllibs")
	require.True(t, ok)
	assert.Equal(t, []string{"gsl", "gslcblas"}, gsl)
	empty, ok := env.Group("empty")
	assert.True(t, ok)
	assert.Empty(t, empty)
}

func TestLoader_LoadedDeclarationEvaluates(t *testing.T) {
	model, err := NewLoader().ParseBytes(context.Background(), []byte(declarationHCL+environmentHCL), "inline.hcl")
	require.NoError(t, err)

	actions, err := model.Declarations["st_facilities"].Actions(context.Background(), model.Environment, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []declaration.Action{
		declaration.LinkLibrary("st_facilities"),
		declaration.ResolvePackagePath("st_facilities"),
		declaration.IncludeDependencyGroup("astroLib"),
		declaration.LinkLibrary("cfitsio"),
		declaration.LinkLibrary("gsl", "gslcblas"),
	}, actions)
}

func TestLoader_LaterFileReplacesDeclaration(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.hcl": `declaration "astroLib" {
  revision "1" {
    link_self {}
  }
}`,
		"b.hcl": `declaration "astroLib" {
  revision "3" {
    link_self {}
    link_group "clhepLibs" {}
  }
}`,
	})

	model, err := NewLoader().Load(context.Background(), filepath.Join(root, "a.hcl"), filepath.Join(root, "b.hcl"))
	require.NoError(t, err)
	assert.Equal(t, 3, model.Declarations["astroLib"].Latest().Number)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		expectErr string
	}{
		{
			name:      "unknown top-level block",
			src:       `grid "x" {}`,
			expectErr: "Unsupported block type",
		},
		{
			name: "non-numeric revision",
			src: `declaration "x" {
  revision "latest" {}
}`,
			expectErr: "Invalid revision number",
		},
		{
			name: "duplicate revision",
			src: `declaration "x" {
  revision "1" {}
  revision "1" {}
}`,
			expectErr: "Duplicate revision",
		},
		{
			name:      "declaration without revisions",
			src:       `declaration "x" {}`,
			expectErr: "Declaration without revisions",
		},
		{
			name: "duplicate declaration in one file",
			src: `declaration "x" {
  revision "1" {}
}
declaration "x" {
  revision "2" {}
}`,
			expectErr: "Duplicate declaration",
		},
		{
			name: "optional on include",
			src: `declaration "x" {
  revision "1" {
    include "astroLib" {
      optional = true
    }
  }
}`,
			expectErr: "Unsupported attribute",
		},
		{
			name: "self_only on link_self",
			src: `declaration "x" {
  revision "1" {
    link_self {
      self_only = true
    }
  }
}`,
			expectErr: "Unsupported attribute",
		},
		{
			name: "condition with unknown variable",
			src: `declaration "x" {
  revision "1" {
    include "astroLib" {
      when = env.PLATFORM == "win32"
    }
  }
}`,
			expectErr: "Unknown condition variable",
		},
		{
			name: "non-boolean condition",
			src: `declaration "x" {
  revision "1" {
    include "astroLib" {
      when = container_name
    }
  }
}`,
			expectErr: "Invalid condition",
		},
		{
			name: "unknown step kind",
			src: `declaration "x" {
  revision "1" {
    compile "x" {}
  }
}`,
			expectErr: "Unsupported block type",
		},
		{
			name: "two environment blocks",
			src: `environment {}
environment {}`,
			expectErr: `Duplicate "environment" block`,
		},
		{
			name: "environment group of wrong type",
			src: `environment {
  groups = { cfitsioLibs = "cfitsio" }
}`,
			expectErr: "Unsuitable value type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().ParseBytes(context.Background(), []byte(tc.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestLoader_PathErrors(t *testing.T) {
	root := writeFiles(t, map[string]string{"env.json": `{}`})

	_, err := NewLoader().Load(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorContains(t, err, "error accessing path")

	_, err = NewLoader().Load(context.Background(), filepath.Join(root, "env.json"))
	assert.ErrorContains(t, err, "is not an .hcl file")
}

func TestLoader_SyntaxError(t *testing.T) {
	root := writeFiles(t, map[string]string{"broken.hcl": `declaration "x" {`})

	_, err := NewLoader().Load(context.Background(), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}
