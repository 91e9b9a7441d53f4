// Package hostinfo captures static properties of the host.
package hostinfo

import (
	"context"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// Host info lookup timeout.
const captureTimeout = 5 * time.Second

// HostProperties is a snapshot of static host properties, taken once at
// startup.
type HostProperties struct {
	OS             string `json:"os" yaml:"os"`
	Hostname       string `json:"hostname" yaml:"hostname"`
	Release        string `json:"release" yaml:"release"`
	Version        string `json:"version" yaml:"version"`
	Machine        string `json:"machine" yaml:"machine"`
	RuntimeVersion string `json:"runtime_version" yaml:"runtime_version"`
}

// Capture reads the host properties. It never fails: fields that cannot be
// read fall back to what the Go runtime knows.
func Capture(ctx context.Context) HostProperties {
	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	props := HostProperties{RuntimeVersion: runtime.Version()}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		log.Printf("[WARN] Failed to read host info, using runtime defaults: %v", err)
	}
	if info != nil {
		props.OS = info.OS
		props.Hostname = info.Hostname
		props.Release = info.KernelVersion
		props.Version = info.PlatformVersion
		props.Machine = info.KernelArch
	}

	if props.OS == "" {
		props.OS = runtime.GOOS
	}
	if props.Machine == "" {
		props.Machine = runtime.GOARCH
	}
	if props.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		props.Hostname = hostname
	}
	return props
}
