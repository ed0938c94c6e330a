package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"cp77-rig-tools/internal/raster"
	"cp77-rig-tools/internal/skeleton"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"rig_dir": "rigs", "mirror_axis": "y", "workers": 3, "write_gltf": true}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rigs", cfg.RigDir)
	assert.Equal(t, skeleton.AxisY, cfg.MirrorAxis)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.WriteGLTF)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "rig_dir: rigs\nmirror_axis: z\npreview: true\npreview_format: tga\nbone_length: 0.05\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, skeleton.AxisZ, cfg.MirrorAxis)
	assert.True(t, cfg.Preview)
	assert.Equal(t, "tga", cfg.PreviewFormat)
	assert.Equal(t, 0.05, cfg.BoneLength)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeFile(t, "bad.json", `{"mirror_axis": "w"}`))
	assert.ErrorContains(t, err, "config: parse")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CP77RIG_WORKERS", "7")
	t.Setenv("CP77RIG_MIRROR_AXIS", "z")
	t.Setenv("CP77RIG_PREVIEW", "true")

	cfg := Config{RigDir: "keep", Workers: 2}
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, skeleton.AxisZ, cfg.MirrorAxis)
	assert.True(t, cfg.Preview)
	assert.Equal(t, "keep", cfg.RigDir)

	t.Setenv("CP77RIG_WORKERS", "many")
	assert.Error(t, cfg.ApplyEnv())
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	assert.Equal(t, ".", cfg.RigDir)
	assert.Equal(t, "resolved", cfg.OutputDir)
	assert.Equal(t, skeleton.DefaultBoneLength, cfg.BoneLength)
	assert.Equal(t, "webp", cfg.PreviewFormat)
	assert.Equal(t, 256, cfg.PreviewSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, raster.FormatWebP, cfg.Format())
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{RigDir: "file", Workers: 2, PreviewFormat: "webp"}
	cfg.Resolve(Flags{RigDir: "flag", Workers: 5, PreviewFormat: "tga", WriteGLTF: true, Preview: true, PreviewSize: 128})
	assert.Equal(t, "flag", cfg.RigDir)
	assert.Equal(t, filepath.Join("flag", "resolved"), cfg.OutputDir)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, "tga", cfg.PreviewFormat)
	assert.True(t, cfg.WriteGLTF)
	assert.True(t, cfg.Preview)

	opts := cfg.RenderOptions()
	assert.Equal(t, 128, opts.Size)
	assert.Equal(t, 2, opts.Supersample)

	so := cfg.SkeletonOptions()
	assert.Equal(t, cfg.BoneLength, so.BoneLength)
}

func TestValidate(t *testing.T) {
	cfg := Config{PreviewFormat: "gif"}
	assert.Error(t, cfg.Validate())

	cfg = Config{PreviewFormat: "webp", PreviewSize: 256, MirrorAxis: skeleton.Axis(9)}
	assert.Error(t, cfg.Validate())

	cfg = Config{PreviewFormat: "webp", PreviewSize: 256, FOV: 180}
	assert.ErrorContains(t, cfg.Validate(), "fov")
}

func TestValidatePreviewSize(t *testing.T) {
	cfg := Config{}
	cfg.Resolve(Flags{PreviewSize: 8})
	assert.ErrorContains(t, cfg.Validate(), "preview size 8 is below the minimum of 16")

	cfg = Config{}
	cfg.Resolve(Flags{PreviewSize: MinPreviewSize})
	assert.NoError(t, cfg.Validate())
}

func TestPerspectivePreview(t *testing.T) {
	path := writeFile(t, "config.yaml", "perspective: true\nanim_bones: [Root, Hips]\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{FOV: 35})
	require.NoError(t, cfg.Validate())

	opts := cfg.RenderOptions()
	assert.True(t, opts.Camera.Perspective)
	assert.Equal(t, 35.0, opts.Camera.FOV)
	assert.Equal(t, []string{"Root", "Hips"}, cfg.SkeletonOptions().AnimBones)

	t.Setenv("CP77RIG_ANIM_BONES", "Spine,Neck")
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, []string{"Spine", "Neck"}, cfg.SkeletonOptions().AnimBones)
}
