package hellotriangle

import "fmt"

// InitErrorKind classifies why Initialize failed.
type InitErrorKind int

const (
	// DeviceNotFound means no GPU device could be resolved.
	DeviceNotFound InitErrorKind = iota + 1
	// ShaderLibraryUnavailable means the shader program could not be
	// validated or loaded.
	ShaderLibraryUnavailable
	// PipelineConstructionFailed means the render pipeline was rejected.
	PipelineConstructionFailed
	// SubmissionChannelUnavailable means no commands can be submitted.
	SubmissionChannelUnavailable
)

// String returns the human-readable description of the kind.
func (k InitErrorKind) String() string {
	switch k {
	case DeviceNotFound:
		return "GPU device not found. Make sure you are running on a real device."
	case ShaderLibraryUnavailable:
		return "unable to create shader library"
	case PipelineConstructionFailed:
		return "unable to create render pipeline"
	case SubmissionChannelUnavailable:
		return "unable to create command queue"
	default:
		return fmt.Sprintf("InitErrorKind(%d)", int(k))
	}
}

// Sentinel errors matching each InitErrorKind through errors.Is.
var (
	ErrDeviceNotFound               = &InitError{Kind: DeviceNotFound}
	ErrShaderLibraryUnavailable     = &InitError{Kind: ShaderLibraryUnavailable}
	ErrPipelineConstructionFailed   = &InitError{Kind: PipelineConstructionFailed}
	ErrSubmissionChannelUnavailable = &InitError{Kind: SubmissionChannelUnavailable}
)

// InitError is returned by Initialize. Err is the underlying cause.
type InitError struct {
	Kind InitErrorKind
	Err  error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *InitError) Unwrap() error { return e.Err }

// Is reports whether target is an InitError of the same kind.
func (e *InitError) Is(target error) bool {
	t, ok := target.(*InitError)
	return ok && t.Kind == e.Kind
}

func initError(kind InitErrorKind, err error) *InitError {
	return &InitError{Kind: kind, Err: err}
}
