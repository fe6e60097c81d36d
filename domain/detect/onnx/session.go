package onnx

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var envOnce struct {
	sync.Mutex
	refs int
}

// initEnvironment loads the onnxruntime shared library once per process.
// Each successful call must be paired with releaseEnvironment.
func initEnvironment(libPath string) error {
	envOnce.Lock()
	defer envOnce.Unlock()
	if envOnce.refs > 0 {
		envOnce.refs++
		return nil
	}
	if libPath == "" {
		libPath = defaultSharedLibPath()
	}
	if _, err := os.Stat(libPath); err != nil {
		return fmt.Errorf("onnxruntime library %s: %w", libPath, err)
	}
	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initializing onnxruntime: %w", err)
	}
	envOnce.refs = 1
	return nil
}

func releaseEnvironment() {
	envOnce.Lock()
	defer envOnce.Unlock()
	if envOnce.refs == 0 {
		return
	}
	envOnce.refs--
	if envOnce.refs == 0 {
		_ = ort.DestroyEnvironment()
	}
}

func defaultSharedLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "libonnxruntime.so"
	}
}

// session owns one model with preallocated input and output tensors.
type session struct {
	sess   *ort.AdvancedSession
	input  *ort.Tensor[float32]
	output *ort.Tensor[float32]
	// output dims are [1, channels, anchors]
	channels int
	anchors  int
}

func newSession(modelPath string, inputSize int, threads int) (*session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file %s: %w", modelPath, err)
	}
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("reading model io: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("model has %d inputs and %d outputs, want 1 and 1", len(inputs), len(outputs))
	}
	outDims := outputs[0].Dimensions
	if len(outDims) != 3 || outDims[1] <= 0 || outDims[2] <= 0 {
		return nil, fmt.Errorf("unsupported output shape %v", outDims)
	}

	in, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, int64(inputSize), int64(inputSize)))
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, outDims[1], outDims[2]))
	if err != nil {
		in.Destroy()
		return nil, fmt.Errorf("creating output tensor: %w", err)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		in.Destroy()
		out.Destroy()
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer opts.Destroy()
	if threads > 0 {
		_ = opts.SetIntraOpNumThreads(threads)
	}

	sess, err := ort.NewAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.Value{in}, []ort.Value{out}, opts)
	if err != nil {
		in.Destroy()
		out.Destroy()
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &session{
		sess:     sess,
		input:    in,
		output:   out,
		channels: int(outDims[1]),
		anchors:  int(outDims[2]),
	}, nil
}

func (s *session) run() error { return s.sess.Run() }

func (s *session) close() error {
	var err error
	if s.sess != nil {
		err = s.sess.Destroy()
		s.sess = nil
	}
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	return err
}
