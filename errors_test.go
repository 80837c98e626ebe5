package hellotriangle

import (
	"errors"
	"strings"
	"testing"
)

func TestInitErrorMessages(t *testing.T) {
	tests := []struct {
		kind InitErrorKind
		want string
	}{
		{DeviceNotFound, "GPU device not found. Make sure you are running on a real device."},
		{ShaderLibraryUnavailable, "unable to create shader library"},
		{PipelineConstructionFailed, "unable to create render pipeline"},
		{SubmissionChannelUnavailable, "unable to create command queue"},
		{InitErrorKind(42), "InitErrorKind(42)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestInitErrorWrapsCause(t *testing.T) {
	cause := errors.New("no adapters")
	err := error(initError(DeviceNotFound, cause))

	if !errors.Is(err, ErrDeviceNotFound) {
		t.Error("errors.Is(err, ErrDeviceNotFound) = false")
	}
	if errors.Is(err, ErrShaderLibraryUnavailable) {
		t.Error("matched a different kind")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return the cause")
	}
	if !strings.HasPrefix(err.Error(), "GPU device not found.") || !strings.HasSuffix(err.Error(), ": no adapters") {
		t.Errorf("Error() = %q", err.Error())
	}

	var ie *InitError
	if !errors.As(err, &ie) || ie.Kind != DeviceNotFound {
		t.Errorf("errors.As gave %+v", ie)
	}
}

func TestInitErrorWithoutCause(t *testing.T) {
	if got := ErrPipelineConstructionFailed.Error(); got != "unable to create render pipeline" {
		t.Errorf("Error() = %q", got)
	}
}
