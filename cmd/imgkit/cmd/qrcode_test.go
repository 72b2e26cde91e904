package cmd

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/imgkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodeCommand(t *testing.T) {
	assert.Equal(t, "qrcode", qrcodeCmd.Name())
	assert.NotEmpty(t, qrcodeCmd.Long)
	for _, name := range []string{"icon", "output", "size", "icon-size", "fill-color", "back-color", "verify"} {
		assert.NotNil(t, qrcodeCmd.Flags().Lookup(name), name)
	}
}

func TestQRCode_WithoutIcon(t *testing.T) {
	dir := testEnv(t)

	stdout, stderr, err := run(t, "qrcode", "https://example.com", "-s", "256")
	require.NoError(t, err)

	out := filepath.Join("output", "qrcode.png")
	assert.Contains(t, stdout, "QR code saved to "+out)
	assert.NotContains(t, stderr, "Warning:")

	img := testutil.LoadImage(t, filepath.Join(dir, out))
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestQRCode_WithIconVerified(t *testing.T) {
	dir := testEnv(t)
	icon := testutil.SaveImage(t, testutil.CircleIcon(64, color.NRGBA{R: 30, G: 144, B: 255, A: 255}), filepath.Join(dir, "logo.png"))
	out := filepath.Join(dir, "card.png")

	stdout, _, err := run(t, "qrcode", "https://example.com", "-i", icon, "-o", out, "-s", "400", "--icon-size", "0.2", "--verify")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ratio 0.20")
	assert.Contains(t, stdout, "verified")
	assert.True(t, testutil.FileExists(out))
}

func TestQRCode_DefaultNameWithIcon(t *testing.T) {
	dir := testEnv(t)
	testutil.SaveImage(t, testutil.CircleIcon(32, color.Black), filepath.Join(dir, "brand.png"))

	_, _, err := run(t, "qrcode", "hello", "-i", "brand.png", "-s", "128")
	require.NoError(t, err)
	assert.True(t, testutil.FileExists(filepath.Join(dir, "output", "qrcode_with_brand.png")))
}

func TestQRCode_RatioWarning(t *testing.T) {
	dir := testEnv(t)
	icon := testutil.SaveImage(t, testutil.SolidImage(20, 20, color.Black), filepath.Join(dir, "logo.png"))
	out := filepath.Join(dir, "big.png")

	stdout, stderr, err := run(t, "qrcode", "https://example.com", "-i", icon, "-o", out, "-s", "256", "--icon-size", "0.6")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning:")
	assert.Contains(t, stdout, "QR code saved to")
	assert.True(t, testutil.FileExists(out))
}

func TestQRCode_MissingIcon(t *testing.T) {
	dir := testEnv(t)
	out := filepath.Join(dir, "never.png")

	_, _, err := run(t, "qrcode", "https://example.com", "-i", filepath.Join(dir, "nope.png"), "-o", out, "-s", "128")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QR code generation failed")
	assert.False(t, testutil.FileExists(out))
}

func TestQRCode_InvalidArguments(t *testing.T) {
	testEnv(t)

	_, _, err := run(t, "qrcode")
	require.Error(t, err)

	_, _, err = run(t, "qrcode", "x", "-f", "not-a-colour")
	require.Error(t, err)

	resetFlags(rootCmd)
	_, _, err = run(t, "qrcode", "x", "-s", "0")
	require.Error(t, err)
}

func TestQRCode_ConfigFile(t *testing.T) {
	dir := testEnv(t)
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, writeFile(cfg, "qrcode:\n  size: 200\n  output_dir: codes\n"))

	_, _, err := run(t, "--config", cfg, "qrcode", "payload")
	require.NoError(t, err)

	img := testutil.LoadImage(t, filepath.Join(dir, "codes", "qrcode.png"))
	assert.Equal(t, 200, img.Bounds().Dx())
}
