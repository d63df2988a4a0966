package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jeebie.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[timing]
line_ticks = 120

[debug]
log = true
operator = "prompt"

[speed]
multiplier = 2.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Timing.LineTicks = 120
	want.Debug.Log = true
	want.Debug.Operator = "prompt"
	want.Speed.Multiplier = 2.5

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"unknown key", "[timing]\nline_tick = 100\n", ErrUnknownKeys},
		{"unknown section", "[audio]\nvolume = 1\n", ErrUnknownKeys},
		{"hblank past line end", "[timing]\nhblank_after = 114\n", ErrInvalid},
		{"too many active lines", "[timing]\nactive_lines = 145\n", ErrInvalid},
		{"bad operator", "[debug]\noperator = \"gui\"\n", ErrInvalid},
		{"zero speed", "[speed]\nmultiplier = 0.0\n", ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeFile(t, "[timing\n"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Every = 60

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), "[timing]")
	assert.Contains(t, buf.String(), "hblank_after = 63")

	loaded, err := Load(writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
