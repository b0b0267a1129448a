package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-dae/internal/config"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, want string
	}{
		{"house.rsm", "", "house.dae"},
		{"data/prontera.rsw", "", "data/prontera.dae"},
		{"house.rsm", "out.dae", "out.dae"},
		{"house.rsm", "-", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.input+tt.output, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.input, tt.output))
		})
	}
}

func TestLoadSceneUnsupported(t *testing.T) {
	_, _, err := loadScene("map.gat", config.Default())
	assert.ErrorIs(t, err, errUnsupported)
}

func TestModelSourceDataDir(t *testing.T) {
	root := t.TempDir()
	model := filepath.Join(root, "data", "model", "house.rsm")
	require.NoError(t, os.MkdirAll(filepath.Dir(model), 0755))
	require.NoError(t, os.WriteFile(model, []byte("GRSM"), 0644))

	mgr, err := modelSource(filepath.Join(root, "data", "town.rsw"), config.Default())
	require.NoError(t, err)
	defer mgr.Close()

	data, err := mgr.ReadFile("data/model/house.rsm")
	require.NoError(t, err)
	assert.Equal(t, "GRSM", string(data))
}

func TestModelSourceBadArchive(t *testing.T) {
	cfg := config.Default()
	cfg.Data.GRFPaths = []string{filepath.Join(t.TempDir(), "missing.grf")}

	_, err := modelSource("town.rsw", cfg)
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "house.dae")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0644))

	err := writeFileAtomic(out, func(w io.Writer) error {
		io.WriteString(w, "<COLLADA>")
		return errors.New("export failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	err = writeFileAtomic(out, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	require.NoError(t, err)

	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "house.dae")

	err := writeFileAtomic(out, func(w io.Writer) error { return nil })
	assert.Error(t, err)
}
