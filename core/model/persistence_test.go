package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	want := sampleSnapshot()

	require.NoError(t, WriteSnapshot(want, path))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, want.Arch, got.Arch)
	assert.Equal(t, want.Tensors, got.Tensors)
}

func TestWriteSnapshotLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteSnapshot(sampleSnapshot(), filepath.Join(dir, "snap.json")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snap.json", entries[0].Name())
}

func TestWriteSnapshotRejectsInvalid(t *testing.T) {
	s := sampleSnapshot()
	s.Arch = ""
	err := WriteSnapshot(s, filepath.Join(t.TempDir(), "snap.json"))
	assert.Error(t, err)
}

func TestWriteSnapshotOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")

	first := sampleSnapshot()
	require.NoError(t, WriteSnapshot(first, path))

	second := sampleSnapshot()
	second.Tensors[0].Data[0] = 42
	require.NoError(t, WriteSnapshot(second, path))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Tensors[0].Data[0])
}

func TestReadSnapshotErrors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := ReadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))
		_, err := ReadSnapshot(path)
		assert.Error(t, err)
	})

	t.Run("Structurally invalid snapshot", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"arch":"x","version":"1","tensors":[{"name":"w","shape":[2,2],"data":[1]}]}`), 0o644))
		_, err := ReadSnapshot(path)
		assert.Error(t, err)
	})
}

func TestReadSnapshotFrom(t *testing.T) {
	data, err := sampleSnapshot().ToJSON()
	require.NoError(t, err)

	got, err := ReadSnapshotFrom(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "mlp-classifier", got.Arch)
}
