package cmd

import (
	"log/slog"

	"github.com/MeKo-Tech/imgkit/internal/models"
	"github.com/MeKo-Tech/imgkit/internal/rembg"
	"github.com/spf13/cobra"
)

var removebgCmd = &cobra.Command{
	Use:   "removebg <input|pattern>...",
	Short: "Remove image backgrounds with a segmentation model",
	Long: `Remove the background of images using a U2-Net style segmentation model run
through ONNX Runtime. The foreground keeps its colours; the background
becomes transparent.

Results are always PNG and are written as <name>_no_bg.png into
--output-dir (default: output).

Models are looked up in --models-dir (or ` + models.EnvModelsDir + `), under
segmentation/ or directly. Known models: u2net, u2netp, u2net_human_seg,
silueta. A path to any compatible .onnx file works as well.

Examples:
  imgkit removebg photo.jpg
  imgkit removebg photo.jpg -o photo_cutout.png
  imgkit removebg "input/*" -d processed --model u2netp
  imgkit removebg portrait.jpg --model u2net_human_seg --gpu`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemoveBGCommand,
}

func init() {
	rootCmd.AddCommand(removebgCmd)
	addBatchFlags(removebgCmd, "output")

	f := removebgCmd.Flags()
	f.String("model", models.DefaultSegmentationModel, "segmentation model name or path")
	f.Int("threads", 0, "intra-op threads for inference (0 = runtime default)")
	f.Bool("gpu", false, "run inference on CUDA")
	f.Int("gpu-device", 0, "CUDA device ID")
}

func runRemoveBGCommand(cmd *cobra.Command, args []string) error {
	cfg := *GetConfig()
	f := cmd.Flags()
	if f.Changed("model") {
		cfg.RemoveBG.Model, _ = f.GetString("model")
	}
	if f.Changed("threads") {
		cfg.RemoveBG.NumThreads, _ = f.GetInt("threads")
	}
	if f.Changed("gpu") {
		cfg.RemoveBG.GPU.UseGPU, _ = f.GetBool("gpu")
	}
	if f.Changed("gpu-device") {
		cfg.RemoveBG.GPU.DeviceID, _ = f.GetInt("gpu-device")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	session, err := rembg.NewSession(cfg.ToRemoverConfig())
	if err != nil {
		return err
	}
	defer session.Close()

	bc := batchConfigFromFlags(cmd, cfg.RemoveBG.OutputDir, rembg.OutputSuffix)
	bc.Extension = rembg.OutputExtension
	slog.Debug("Background removal", "model", cfg.RemoveBG.Model, "gpu", cfg.RemoveBG.GPU.UseGPU)

	return runBatch(cmd, args, rembg.Processor{Remover: session}, bc)
}
