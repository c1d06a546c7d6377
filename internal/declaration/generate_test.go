package declaration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callRecorder records orchestrator calls and can fail on a chosen call.
type callRecorder struct {
	calls  []Action
	failOn int
	err    error
}

func (c *callRecorder) record(a Action) error {
	c.calls = append(c.calls, a)
	if c.err != nil && len(c.calls) == c.failOn {
		return c.err
	}
	return nil
}

func (c *callRecorder) RegisterLink(_ context.Context, names []string) error {
	return c.record(LinkLibrary(names...))
}

func (c *callRecorder) ResolvePath(_ context.Context, pkg string) error {
	return c.record(ResolvePackagePath(pkg))
}

func (c *callRecorder) ApplyDependencyGroup(_ context.Context, group string) error {
	return c.record(IncludeDependencyGroup(group))
}

func TestGenerate_ExecutesInOrder(t *testing.T) {
	d := New("st_facilities", finalRevision())
	orch := &callRecorder{}

	err := d.Generate(context.Background(), newEnv("win32", "GlastRelease", fullGroups()), orch, false)
	require.NoError(t, err)

	expected, err := d.Actions(context.Background(), newEnv("win32", "GlastRelease", fullGroups()), 0, false)
	require.NoError(t, err)
	assert.Equal(t, expected, orch.calls)
	assert.Equal(t, ResolvePackagePath("st_facilities"), orch.calls[1])
}

func TestGenerate_MissingGroupStopsAfterExecutedPrefix(t *testing.T) {
	testCases := []struct {
		name     string
		missing  string
		expected []Action
	}{
		{
			name:    "cfitsioLibs missing",
			missing: "cfitsioLibs",
			expected: []Action{
				LinkLibrary("st_facilities"),
				IncludeDependencyGroup("astroLib"),
			},
		},
		{
			name:    "f2cLibs missing",
			missing: "f2cLibs",
			expected: []Action{
				LinkLibrary("st_facilities"),
				IncludeDependencyGroup("astroLib"),
				LinkLibrary("cfitsio"),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			groups := fullGroups()
			delete(groups, tc.missing)
			orch := &callRecorder{}

			err := New("st_facilities", finalRevision()).Generate(context.Background(), newEnv("linux", "", groups), orch, false)

			var missing *MissingGroupError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.missing, missing.Group)
			assert.Equal(t, tc.expected, orch.calls, "actions before the missing group run, none after it")
		})
	}
}

func TestGenerate_OrchestratorErrorBeforeMissingGroupWins(t *testing.T) {
	groups := fullGroups()
	delete(groups, "cfitsioLibs")
	boom := errors.New("astroLib could not be applied")
	orch := &callRecorder{failOn: 2, err: boom}

	err := New("st_facilities", finalRevision()).Generate(context.Background(), newEnv("linux", "", groups), orch, false)

	assert.Same(t, boom, err)
	assert.NotErrorIs(t, err, ErrMissingGroup)
	assert.Equal(t, []Action{LinkLibrary("st_facilities"), IncludeDependencyGroup("astroLib")}, orch.calls)
}

func TestGenerate_SurfacesOrchestratorErrorUnchanged(t *testing.T) {
	boom := errors.New("path lookup failed")
	orch := &callRecorder{failOn: 2, err: boom}

	err := New("st_facilities", finalRevision()).Generate(context.Background(), newEnv("win32", "GlastRelease", fullGroups()), orch, false)

	assert.Same(t, boom, err)
	assert.Len(t, orch.calls, 2, "execution must stop at the failing call")
}

func TestGenerateRevision_UnknownRevision(t *testing.T) {
	err := New("st_facilities", finalRevision()).GenerateRevision(context.Background(), newEnv("linux", "", fullGroups()), &callRecorder{}, 42, false)
	assert.ErrorIs(t, err, ErrUnknownRevision)
}

func TestExecute_UnsupportedKind(t *testing.T) {
	err := Execute(context.Background(), &callRecorder{}, []Action{{Kind: "compile"}})
	assert.ErrorContains(t, err, "unsupported action kind")
}
