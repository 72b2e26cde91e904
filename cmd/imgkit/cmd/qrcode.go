package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/imgkit/internal/config"
	"github.com/MeKo-Tech/imgkit/internal/generator"
	"github.com/spf13/cobra"
)

// qrcodeCmd generates a QR code with an optional centre icon.
var qrcodeCmd = &cobra.Command{
	Use:   "qrcode <payload>",
	Short: "Generate a QR code, optionally with an icon in the centre",
	Long: `Generate a QR code for the given text or URL at the highest error-correction
level. With --icon the image is square-cropped, resized to --icon-size of the
code width and pasted in the centre inside a background-coloured halo.

Icon size ratios outside 0.1-0.4 produce a warning; larger icons may make the
code unreadable. Use --verify to decode the result before it is saved.

Without --output the file is written to <output-dir>/qrcode.png, or
<output-dir>/qrcode_with_<icon name>.png when an icon is used. The output
format follows the file extension (png, jpg, bmp, gif, tif, pdf).

Examples:
  imgkit qrcode https://example.com
  imgkit qrcode https://example.com -i logo.png
  imgkit qrcode "WIFI:S:home;T:WPA;P:secret;;" -s 512 -f navy -b "#fffff0"
  imgkit qrcode https://example.com -i logo.png -o card.pdf --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runQRCodeCommand,
}

func init() {
	rootCmd.AddCommand(qrcodeCmd)

	defaults := config.DefaultConfig().QRCode
	f := qrcodeCmd.Flags()
	f.StringP("icon", "i", "", "icon image to embed in the centre")
	f.StringP("output", "o", "", "output file (default <output-dir>/qrcode[_with_<icon>].png)")
	f.IntP("size", "s", defaults.Size, "output image side length in pixels")
	f.Float64("icon-size", defaults.IconSize, "icon side as a fraction of the QR code side (recommended 0.1-0.4)")
	f.StringP("fill-color", "f", defaults.FillColor, "module colour (name or #RRGGBB)")
	f.StringP("back-color", "b", defaults.BackColor, "background and halo colour (name or #RRGGBB)")
	f.String("output-dir", defaults.OutputDir, "directory for the default output file")
	f.Int("halo-padding", defaults.HaloPadding, "halo width in pixels around the icon")
	f.Bool("verify", defaults.Verify, "decode the generated code and fail if it does not read back")
}

// qrcodeConfig merges the qrcode section of cfg with explicitly set flags.
func qrcodeConfig(cfg *config.Config, cmd *cobra.Command) config.Config {
	merged := *cfg
	q := &merged.QRCode
	f := cmd.Flags()

	if f.Changed("size") {
		q.Size, _ = f.GetInt("size")
	}
	if f.Changed("icon-size") {
		q.IconSize, _ = f.GetFloat64("icon-size")
	}
	if f.Changed("fill-color") {
		q.FillColor, _ = f.GetString("fill-color")
	}
	if f.Changed("back-color") {
		q.BackColor, _ = f.GetString("back-color")
	}
	if f.Changed("output-dir") {
		q.OutputDir, _ = f.GetString("output-dir")
	}
	if f.Changed("halo-padding") {
		q.HaloPadding, _ = f.GetInt("halo-padding")
	}
	if f.Changed("verify") {
		q.Verify, _ = f.GetBool("verify")
	}
	return merged
}

func runQRCodeCommand(cmd *cobra.Command, args []string) error {
	cfg := qrcodeConfig(GetConfig(), cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	genCfg, err := cfg.ToGeneratorConfig()
	if err != nil {
		return err
	}

	icon, _ := cmd.Flags().GetString("icon")
	output, _ := cmd.Flags().GetString("output")

	res, err := generator.New(genCfg).Run(cmd.Context(), args[0], icon, output)
	if err != nil {
		return fmt.Errorf("QR code generation failed: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	if res.Warning != nil {
		_, _ = fmt.Fprintf(errOut, "Warning: %s\n", res.Warning)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "QR code saved to %s\n", res.OutputPath)
	_, _ = fmt.Fprintf(out, "  size: %dx%d\n", genCfg.Size, genCfg.Size)
	if icon != "" {
		_, _ = fmt.Fprintf(out, "  icon: %s (ratio %.2f)\n", icon, genCfg.CoverageRatio)
	}
	if res.Decoded != "" {
		_, _ = fmt.Fprintln(out, "  verified: decodes to the payload")
	}
	return nil
}
