package cmd

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/imgkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestBinarize_NextToInput(t *testing.T) {
	dir := testEnv(t)
	in := testutil.SaveImage(t, testutil.GradientImage(64, 4), filepath.Join(dir, "scan.png"))

	stdout, _, err := run(t, "binarize", in, "-t", "100")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Processed 1 of 1 file(s)")

	out := testutil.LoadImage(t, filepath.Join(dir, "scan_bw.png"))
	r, _, _, _ := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	r, _, _, _ = out.At(63, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestBinarize_GlobIntoOutputDir(t *testing.T) {
	dir := testEnv(t)
	testutil.SaveImage(t, testutil.GradientImage(8, 8), filepath.Join(dir, "in", "a.png"))
	testutil.SaveImage(t, testutil.GradientImage(8, 8), filepath.Join(dir, "in", "b.png"))

	stdout, _, err := run(t, "binarize", filepath.Join(dir, "in", "*.png"), "-d", filepath.Join(dir, "out"), "--format", "json")
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.InDelta(t, 2, summary["succeeded"], 0)
	assert.True(t, testutil.FileExists(filepath.Join(dir, "out", "a_bw.png")))
	assert.True(t, testutil.FileExists(filepath.Join(dir, "out", "b_bw.png")))
}

func TestBinarize_Errors(t *testing.T) {
	dir := testEnv(t)

	_, _, err := run(t, "binarize", filepath.Join(dir, "*.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binarize")

	resetFlags(rootCmd)
	in := testutil.SaveImage(t, testutil.GradientImage(4, 4), filepath.Join(dir, "x.png"))
	_, _, err = run(t, "binarize", in, "-t", "300")
	require.Error(t, err)

	resetFlags(rootCmd)
	_, _, err = run(t, "binarize", in, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSilhouette_Command(t *testing.T) {
	dir := testEnv(t)
	in := testutil.SaveImage(t, testutil.CircleIcon(16, color.NRGBA{R: 200, G: 10, B: 10, A: 255}), filepath.Join(dir, "logo.png"))
	out := filepath.Join(dir, "black.png")

	_, _, err := run(t, "silhouette", in, "-o", out, "-q")
	require.NoError(t, err)

	img := testutil.LoadImage(t, out)
	r, g, b, a := img.At(8, 8).RGBA()
	assert.Equal(t, []uint32{0, 0, 0, 0xffff}, []uint32{r, g, b, a})
	_, _, _, a = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestRemoveBG_MissingModel(t *testing.T) {
	dir := testEnv(t)
	in := testutil.SaveImage(t, testutil.SolidImage(8, 8, color.White), filepath.Join(dir, "photo.png"))

	_, _, err := run(t, "removebg", in, "--model", filepath.Join(dir, "missing.onnx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segmentation model")
	assert.False(t, testutil.FileExists(filepath.Join(dir, "output", "photo_no_bg.png")))
}
