// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"context"
	"os"
	"strings"

	"github.com/mlundqv/pacvista/internal/domain"
)

// Form factors reported by the detector.
const (
	FormFactorLaptop  = "laptop"
	FormFactorDesktop = "desktop"
)

// GPU vendors reported by the detector.
const (
	GPUIntel   = "intel"
	GPUAMD     = "amd"
	GPUNvidia  = "nvidia"
	GPUUnknown = "unknown"
)

// HardwareInfo is one snapshot of the machine, gathered on demand.
type HardwareInfo struct {
	FormFactor   string `json:"form_factor"`
	GPUVendor    string `json:"gpu_vendor"`
	GPUModel     string `json:"gpu_model,omitempty"`
	CPUModel     string `json:"cpu_model,omitempty"`
	Kernel       string `json:"kernel"`
	Distribution string `json:"distribution"`
}

// HardwareDetector probes the machine through sysfs and standard
// tools. It holds no cached state: every call re-reads the system, so
// callers decide the caching scope.
type HardwareDetector struct {
	runner domain.CommandRunner

	// Overridable for tests.
	powerSupplyDir string
	osReleasePath  string
}

// NewHardwareDetector creates a detector using the system paths.
func NewHardwareDetector(runner domain.CommandRunner) *HardwareDetector {
	return NewHardwareDetectorWithPaths(runner, "/sys/class/power_supply", "/etc/os-release")
}

// NewHardwareDetectorWithPaths creates a detector probing custom sysfs
// and os-release paths, for testing.
func NewHardwareDetectorWithPaths(runner domain.CommandRunner, powerSupplyDir, osReleasePath string) *HardwareDetector {
	return &HardwareDetector{
		runner:         runner,
		powerSupplyDir: powerSupplyDir,
		osReleasePath:  osReleasePath,
	}
}

// Detect gathers a full snapshot. Individual probe failures degrade to
// "unknown" fields rather than failing the snapshot.
func (d *HardwareDetector) Detect(ctx context.Context) HardwareInfo {
	vendor, model := d.DetectGPU(ctx)

	return HardwareInfo{
		FormFactor:   d.DetectFormFactor(ctx),
		GPUVendor:    vendor,
		GPUModel:     model,
		CPUModel:     d.detectCPUModel(ctx),
		Kernel:       d.detectKernel(ctx),
		Distribution: d.detectDistribution(),
	}
}

// DetectFormFactor classifies the machine as laptop or desktop. A
// battery in sysfs means laptop; otherwise the DMI chassis type is
// consulted, and desktop is the fallback.
func (d *HardwareDetector) DetectFormFactor(ctx context.Context) string {
	entries, err := os.ReadDir(d.powerSupplyDir)
	if err == nil {
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), "BAT") {
				return FormFactorLaptop
			}
		}
	}

	// dmidecode needs root; a failure just means fallback.
	output, err := d.runner.ExecuteWithOutput(ctx, "dmidecode", "-s", "chassis-type")
	if err == nil {
		switch strings.ToLower(strings.TrimSpace(output)) {
		case "laptop", "notebook", "portable", "sub notebook", "convertible":
			return FormFactorLaptop
		}
	}

	return FormFactorDesktop
}

// DetectGPU returns the GPU vendor tag and the raw lspci model line.
func (d *HardwareDetector) DetectGPU(ctx context.Context) (string, string) {
	output, err := d.runner.ExecuteWithOutput(ctx, "lspci")
	if err != nil {
		return GPUUnknown, ""
	}

	for _, line := range strings.Split(output, "\n") {
		upper := strings.ToUpper(line)
		if !strings.Contains(upper, "VGA") && !strings.Contains(upper, "3D") {
			continue
		}

		model := strings.TrimSpace(line)

		switch {
		case strings.Contains(upper, "INTEL"):
			return GPUIntel, model
		case strings.Contains(upper, "AMD"),
			strings.Contains(upper, "ATI"),
			strings.Contains(upper, "RADEON"):
			return GPUAMD, model
		case strings.Contains(upper, "NVIDIA"),
			strings.Contains(upper, "GEFORCE"),
			strings.Contains(upper, "QUADRO"):
			return GPUNvidia, model
		default:
			return GPUUnknown, model
		}
	}

	return GPUUnknown, ""
}

func (d *HardwareDetector) detectCPUModel(ctx context.Context) string {
	output, err := d.runner.ExecuteWithOutput(ctx, "lscpu")
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(line, ":")
		if found && strings.TrimSpace(key) == "Model name" {
			return strings.TrimSpace(value)
		}
	}

	return ""
}

func (d *HardwareDetector) detectKernel(ctx context.Context) string {
	output, err := d.runner.ExecuteWithOutput(ctx, "uname", "-r")
	if err != nil {
		return "unknown"
	}

	return strings.TrimSpace(output)
}

func (d *HardwareDetector) detectDistribution() string {
	content, err := os.ReadFile(d.osReleasePath)
	if err != nil {
		return "unknown"
	}

	for _, line := range strings.Split(string(content), "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if found && key == "ID" {
			return strings.Trim(value, `"`)
		}
	}

	return "unknown"
}
