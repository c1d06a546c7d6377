package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr string
	}{
		{name: "defaults filled", cfg: Config{Target: "st_facilities"}},
		{name: "missing target", cfg: Config{}, expectErr: "Target is a required"},
		{name: "negative revision", cfg: Config{Target: "x", Revision: -1}, expectErr: "invalid revision"},
		{name: "bad output", cfg: Config{Target: "x", Output: "xml"}, expectErr: "invalid output"},
		{name: "bad log format", cfg: Config{Target: "x", LogFormat: "logfmt"}, expectErr: "invalid log-format"},
		{name: "bad log level", cfg: Config{Target: "x", LogLevel: "trace"}, expectErr: "invalid log-level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, OutputText, cfg.Output)
			assert.Equal(t, "text", cfg.LogFormat)
			assert.Equal(t, "info", cfg.LogLevel)
		})
	}
}
