package train

import (
	"github.com/mlkit-go/seqtrain/pkg/errors"
)

// Device selects the computation target for a run. It is fixed at startup;
// the model and batches never migrate mid-run.
type Device string

const (
	// DeviceCPU runs everything on the host CPU.
	DeviceCPU Device = "cpu"
	// DeviceAccelerator requests a hardware accelerator.
	DeviceAccelerator Device = "gpu"
)

// SetupDevice validates the requested device before any epoch runs. This
// build computes on the CPU only; requesting an accelerator fails fast with
// a configuration error rather than silently falling back.
func SetupDevice(d Device) (Device, error) {
	switch d {
	case "", DeviceCPU:
		return DeviceCPU, nil
	case DeviceAccelerator:
		return "", errors.NewConfigError("device", "no accelerator available, run with device=cpu", string(d))
	default:
		return "", errors.NewConfigError("device", "unknown device", string(d))
	}
}
