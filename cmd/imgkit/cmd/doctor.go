package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/imgkit/internal/models"
	"github.com/MeKo-Tech/imgkit/internal/onnx"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ONNX Runtime and the segmentation models are available",
	Long: `Check the prerequisites of removebg: the ONNX Runtime shared library
(override with ` + onnx.EnvLibraryPath + `) and the segmentation models in the
models directory. The other commands need neither.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		modelsDir := models.GetModelsDir(cfg.ModelsDir)
		_, _ = fmt.Fprintf(out, "Models directory: %s\n", modelsDir)
		found := 0
		for _, m := range models.ListAvailableModels() {
			path := models.GetSegmentationModelPath(cfg.ModelsDir, m.Name)
			status := "missing"
			if models.ValidateModelExists(path) == nil {
				status = "ok"
				found++
			}
			_, _ = fmt.Fprintf(out, "  %-16s %-8s %s\n", m.Name, status, path)
		}

		if err := onnx.CheckRuntime(out, cfg.RemoveBG.GPU.UseGPU); err != nil {
			return fmt.Errorf("ONNX Runtime unavailable: %w", err)
		}
		if found == 0 {
			return fmt.Errorf("no segmentation model found in %s", modelsDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
