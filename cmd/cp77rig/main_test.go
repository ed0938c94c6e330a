package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cp77-rig-tools/internal/batch"
	"cp77-rig-tools/internal/export"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var simpleRig = filepath.Join("..", "..", "internal", "rig", "testdata", "simple.rig.json")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, "resolve", simpleRig)
	require.NoError(t, err)

	var rep export.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "simple", rep.Name)
	require.Len(t, rep.Bones, 4)
	assert.Equal(t, "Root", rep.Bones[0].Name)
}

func TestResolveCommandMissingFile(t *testing.T) {
	_, err := execute(t, "resolve", filepath.Join(t.TempDir(), "nope.rig.json"))
	assert.Error(t, err)
}

func TestGLTFCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.glb")
	_, err := execute(t, "gltf", simpleRig, "-o", path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	raw, err := os.ReadFile(simpleRig)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rig.json"), raw, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rig.json"), raw, 0644))

	outDir := filepath.Join(dir, "out")
	out, err := execute(t, "batch", dir, "-o", outDir, "-w", "2", "--preview", "--format", "tga", "--size", "32")
	require.NoError(t, err)
	assert.Contains(t, out, "Resolved: 2/2")

	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	require.NoError(t, err)
	var m batch.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 2, m.Succeeded)

	for _, name := range []string{"a.json", "a.tga", "b.json", "b.tga"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestPreviewCommandPerspective(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.tga")
	_, err := execute(t, "preview", simpleRig, "-o", path, "--format", "tga", "--size", "32", "--perspective", "--fov", "40")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := tga.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestPreviewCommandRejectsTinySize(t *testing.T) {
	_, err := execute(t, "preview", simpleRig, "-o", filepath.Join(t.TempDir(), "x.tga"), "--size", "8")
	assert.ErrorContains(t, err, "preview size 8")
}
