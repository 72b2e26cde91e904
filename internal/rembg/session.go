package rembg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/imgkit/internal/mempool"
	"github.com/MeKo-Tech/imgkit/internal/models"
	"github.com/MeKo-Tech/imgkit/internal/onnx"
	onnxrt "github.com/yalue/onnxruntime_go"
)

// Remover turns an image into the same image with its background made
// transparent.
type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// Config controls the segmentation session.
type Config struct {
	ModelPath  string
	NumThreads int
	GPU        onnx.GPUConfig
}

// DefaultConfig uses the default segmentation model on the CPU.
func DefaultConfig() Config {
	return Config{
		ModelPath: models.GetSegmentationModelPath("", ""),
		GPU:       onnx.DefaultGPUConfig(),
	}
}

// Session is a Remover backed by an ONNX Runtime session. A Session is safe
// for concurrent use; inference calls are serialized.
type Session struct {
	cfg        Config
	session    *onnxrt.DynamicAdvancedSession
	inputInfo  onnxrt.InputOutputInfo
	outputInfo onnxrt.InputOutputInfo
	inH, inW   int

	mu sync.Mutex
}

// NewSession loads the model at cfg.ModelPath. Failures are reported as
// *ModelError.
func NewSession(cfg Config) (*Session, error) {
	if err := validateModelPath(cfg.ModelPath); err != nil {
		return nil, &ModelError{Path: cfg.ModelPath, Op: "load", Err: err}
	}
	if err := onnx.ValidateGPUConfig(cfg.GPU); err != nil {
		return nil, &ModelError{Path: cfg.ModelPath, Op: "configure", Err: err}
	}
	if err := onnx.InitRuntime(cfg.GPU.UseGPU); err != nil {
		return nil, &ModelError{Path: cfg.ModelPath, Op: "init runtime", Err: err}
	}

	in, out, err := modelIO(cfg.ModelPath)
	if err != nil {
		return nil, &ModelError{Path: cfg.ModelPath, Op: "inspect", Err: err}
	}

	opts, err := createSessionOptions(cfg)
	if err != nil {
		return nil, &ModelError{Path: cfg.ModelPath, Op: "configure", Err: err}
	}
	defer func() {
		if err := opts.Destroy(); err != nil {
			slog.Warn("Error destroying session options", "error", err)
		}
	}()

	sess, err := onnxrt.NewDynamicAdvancedSession(cfg.ModelPath, []string{in.Name}, []string{out.Name}, opts)
	if err != nil {
		return nil, &ModelError{Path: cfg.ModelPath, Op: "create session", Err: err}
	}

	s := &Session{cfg: cfg, session: sess, inputInfo: in, outputInfo: out, inH: DefaultInputSize, inW: DefaultInputSize}
	if h := in.Dimensions[2]; h > 0 {
		s.inH = int(h)
	}
	if w := in.Dimensions[3]; w > 0 {
		s.inW = int(w)
	}

	slog.Debug("Segmentation model loaded",
		"model", cfg.ModelPath, "input", in.Name, "output", out.Name,
		"width", s.inW, "height", s.inH, "gpu", cfg.GPU.UseGPU)
	return s, nil
}

func validateModelPath(modelPath string) error {
	if modelPath == "" {
		return errors.New("empty model path")
	}
	return models.ValidateModelExists(modelPath)
}

// modelIO returns the single image input and the first output. U2-Net
// exports carry several side outputs; only the fused map is used.
func modelIO(modelPath string) (onnxrt.InputOutputInfo, onnxrt.InputOutputInfo, error) {
	inputs, outputs, err := onnxrt.GetInputOutputInfo(modelPath)
	if err != nil {
		return onnxrt.InputOutputInfo{}, onnxrt.InputOutputInfo{}, fmt.Errorf("io info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) == 0 {
		return onnxrt.InputOutputInfo{}, onnxrt.InputOutputInfo{},
			fmt.Errorf("unexpected io (in:%d out:%d)", len(inputs), len(outputs))
	}
	if len(inputs[0].Dimensions) != 4 {
		return onnxrt.InputOutputInfo{}, onnxrt.InputOutputInfo{},
			fmt.Errorf("expected 4D input, got %dD", len(inputs[0].Dimensions))
	}
	return inputs[0], outputs[0], nil
}

func createSessionOptions(cfg Config) (*onnxrt.SessionOptions, error) {
	opts, err := onnxrt.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("session opts: %w", err)
	}
	if err := onnx.ConfigureSessionForGPU(opts, cfg.GPU); err != nil {
		_ = opts.Destroy()
		return nil, fmt.Errorf("failed to configure GPU: %w", err)
	}
	if cfg.NumThreads > 0 {
		_ = opts.SetIntraOpNumThreads(cfg.NumThreads)
	}
	return opts, nil
}

// Close releases the ONNX session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		if err := s.session.Destroy(); err != nil {
			slog.Warn("Error destroying session", "error", err)
		}
		s.session = nil
	}
}

// Remove predicts the foreground of img and returns img with the background
// made transparent.
func (s *Session) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := Preprocess(img, s.inW, s.inH)
	if err != nil {
		return nil, err
	}
	defer mempool.PutFloat32(data)
	tensor, err := onnx.NewImageTensor(data, 3, s.inH, s.inW)
	if err != nil {
		return nil, err
	}
	if err := onnx.VerifyImageTensor(tensor); err != nil {
		return nil, err
	}

	pred, shape, err := s.run(tensor)
	if err != nil {
		return nil, &ModelError{Path: s.cfg.ModelPath, Op: "run", Err: err}
	}
	mh, mw := s.inH, s.inW
	if len(shape) == 4 {
		mh, mw = int(shape[2]), int(shape[3])
	}

	mask, err := NormalizeMask(pred, mw, mh)
	if err != nil {
		return nil, &ModelError{Path: s.cfg.ModelPath, Op: "decode output", Err: err}
	}
	return ApplyMask(img, mask)
}

// run executes one inference and returns a copy of the first output.
func (s *Session) run(tensor onnx.Tensor) ([]float32, []int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil, errors.New("session closed")
	}

	input, err := onnxrt.NewTensor(onnxrt.NewShape(tensor.Shape...), tensor.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("tensor: %w", err)
	}
	defer func() {
		if err := input.Destroy(); err != nil {
			slog.Warn("Error destroying input tensor", "error", err)
		}
	}()

	outputs := []onnxrt.Value{nil}
	if err := s.session.Run([]onnxrt.Value{input}, outputs); err != nil {
		return nil, nil, fmt.Errorf("run: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o == nil {
				continue
			}
			if err := o.Destroy(); err != nil {
				slog.Warn("Error destroying output tensor", "error", err)
			}
		}
	}()

	t, ok := outputs[0].(*onnxrt.Tensor[float32])
	if !ok {
		return nil, nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}
	shape := t.GetShape()
	data := append([]float32(nil), t.GetData()...)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		minV, maxV, meanV := onnx.TensorStats(data)
		slog.Debug("Saliency map", "shape", shape, "min", minV, "max", maxV, "mean", meanV)
	}
	return data, []int64(shape), nil
}
