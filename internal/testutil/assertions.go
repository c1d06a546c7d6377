package testutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/libdecl/internal/declaration"
	"github.com/vk/libdecl/internal/orchestrator"
)

// DecodePlan parses the JSON plan written by a run with Output "json".
func DecodePlan(t *testing.T, result *HarnessResult) *orchestrator.Plan {
	t.Helper()
	require.NoError(t, result.Err)
	var plan orchestrator.Plan
	require.NoError(t, json.Unmarshal([]byte(result.Output), &plan), "output is not a JSON plan:\n%s", result.Output)
	return &plan
}

// DecodeActions parses the JSON actions written by an actions-only run.
func DecodeActions(t *testing.T, result *HarnessResult) []declaration.Action {
	t.Helper()
	require.NoError(t, result.Err)
	var actions []declaration.Action
	require.NoError(t, json.Unmarshal([]byte(result.Output), &actions), "output is not a JSON action list:\n%s", result.Output)
	return actions
}

// AssertActions compares actions and reports a readable diff on mismatch.
func AssertActions(t *testing.T, expected, actual []declaration.Action) {
	t.Helper()
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

// AssertLogged checks that the log output contains every given substring.
func AssertLogged(t *testing.T, result *HarnessResult, substrings ...string) {
	t.Helper()
	for _, s := range substrings {
		require.True(t,
			strings.Contains(result.LogOutput, s),
			"expected log output to contain %q", s,
		)
	}
}
