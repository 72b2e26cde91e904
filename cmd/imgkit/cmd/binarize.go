package cmd

import (
	"github.com/MeKo-Tech/imgkit/internal/imageops"
	"github.com/spf13/cobra"
)

var binarizeCmd = &cobra.Command{
	Use:   "binarize <input|pattern>...",
	Short: "Convert images to pure black and white",
	Long: `Convert images to grayscale and then to pure black and white: pixels darker
than the threshold become black, all others white.

Results are written as <name>_bw<ext> next to each input, or into
--output-dir. Quote glob patterns so the shell does not expand them.

Examples:
  imgkit binarize scan.png
  imgkit binarize scan.png -o scan_clean.png -t 150
  imgkit binarize "input/*.jpg" -d output`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		threshold := cfg.Binarize.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetInt("threshold")
		}
		if err := imageops.ValidateThreshold(threshold); err != nil {
			return err
		}
		bc := batchConfigFromFlags(cmd, cfg.Binarize.OutputDir, "_bw")
		return runBatch(cmd, args, imageops.Binarizer{Threshold: threshold}, bc)
	},
}

var silhouetteCmd = &cobra.Command{
	Use:   "silhouette <input|pattern>...",
	Short: "Turn every visible pixel black, keeping transparency",
	Long: `Make a silhouette of an image with an alpha channel: every pixel that is not
fully transparent becomes black with its original alpha.

Results are written as <name>_silhouette<ext> next to each input, or into
--output-dir.

Examples:
  imgkit silhouette logo.png
  imgkit silhouette "logos/*.png" -d silhouettes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		bc := batchConfigFromFlags(cmd, cfg.Silhouette.OutputDir, "_silhouette")
		return runBatch(cmd, args, imageops.Silhouetter{}, bc)
	},
}

func init() {
	rootCmd.AddCommand(binarizeCmd)
	addBatchFlags(binarizeCmd, "")
	binarizeCmd.Flags().IntP("threshold", "t", imageops.DefaultThreshold, "gray level (0-255) below which pixels become black")

	rootCmd.AddCommand(silhouetteCmd)
	addBatchFlags(silhouetteCmd, "")
}
