// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package platform_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlundqv/pacvista/internal/adapters/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDetector(t *testing.T, mock *platform.MockCommandRunner, batteries ...string) *platform.HardwareDetector {
	t.Helper()

	powerDir := t.TempDir()
	for _, name := range batteries {
		require.NoError(t, os.Mkdir(filepath.Join(powerDir, name), 0o755))
	}

	osRelease := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(osRelease, []byte("NAME=\"Artix Linux\"\nID=artix\nID_LIKE=arch\n"), 0o644))

	return platform.NewHardwareDetectorWithPaths(mock, powerDir, osRelease)
}

func TestHardwareDetector_FormFactor(t *testing.T) {
	t.Parallel()

	t.Run("battery means laptop", func(t *testing.T) {
		t.Parallel()

		detector := testDetector(t, platform.NewMockCommandRunner(), "BAT0", "AC")
		assert.Equal(t, platform.FormFactorLaptop, detector.DetectFormFactor(t.Context()))
	})

	t.Run("chassis type fallback", func(t *testing.T) {
		t.Parallel()

		mock := platform.NewMockCommandRunner()
		mock.SetOutput("dmidecode -s chassis-type", "Notebook\n")

		detector := testDetector(t, mock, "AC")
		assert.Equal(t, platform.FormFactorLaptop, detector.DetectFormFactor(t.Context()))
	})

	t.Run("defaults to desktop", func(t *testing.T) {
		t.Parallel()

		mock := platform.NewMockCommandRunner()
		mock.SetError("dmidecode -s chassis-type", errors.New("permission denied"))

		detector := testDetector(t, mock)
		assert.Equal(t, platform.FormFactorDesktop, detector.DetectFormFactor(t.Context()))
	})
}

func TestHardwareDetector_GPU(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lspci      string
		wantVendor string
	}{
		{
			name:       "intel",
			lspci:      "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620\n",
			wantVendor: platform.GPUIntel,
		},
		{
			name:       "amd",
			lspci:      "0a:00.0 VGA compatible controller: Advanced Micro Devices [AMD/ATI] Navi 23\n",
			wantVendor: platform.GPUAMD,
		},
		{
			name:       "nvidia 3d controller",
			lspci:      "01:00.0 3D controller: NVIDIA Corporation GP108M [GeForce MX150]\n",
			wantVendor: platform.GPUNvidia,
		},
		{
			name:       "no display adapter",
			lspci:      "00:1f.3 Audio device: Intel Corporation Cannon Lake PCH\n",
			wantVendor: platform.GPUUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := platform.NewMockCommandRunner()
			mock.SetOutput("lspci", tt.lspci)

			detector := testDetector(t, mock)
			vendor, _ := detector.DetectGPU(t.Context())
			assert.Equal(t, tt.wantVendor, vendor)
		})
	}
}

func TestHardwareDetector_Detect(t *testing.T) {
	t.Parallel()

	mock := platform.NewMockCommandRunner()
	mock.SetOutput("lspci", "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics\n")
	mock.SetOutput("lscpu", "Architecture: x86_64\nModel name: AMD Ryzen 7 5800X\nThread(s) per core: 2\n")
	mock.SetOutput("uname -r", "6.11.3-artix1-1\n")

	detector := testDetector(t, mock, "BAT0")
	info := detector.Detect(t.Context())

	assert.Equal(t, platform.FormFactorLaptop, info.FormFactor)
	assert.Equal(t, platform.GPUIntel, info.GPUVendor)
	assert.Equal(t, "AMD Ryzen 7 5800X", info.CPUModel)
	assert.Equal(t, "6.11.3-artix1-1", info.Kernel)
	assert.Equal(t, "artix", info.Distribution)
}

func TestHardwareDetector_DegradesOnFailure(t *testing.T) {
	t.Parallel()

	mock := platform.NewMockCommandRunner()
	mock.SetError("lspci", errors.New("not found"))
	mock.SetError("lscpu", errors.New("not found"))
	mock.SetError("uname -r", errors.New("not found"))

	detector := platform.NewHardwareDetectorWithPaths(mock, "/nonexistent", "/nonexistent")
	info := detector.Detect(t.Context())

	assert.Equal(t, platform.GPUUnknown, info.GPUVendor)
	assert.Equal(t, "unknown", info.Kernel)
	assert.Equal(t, "unknown", info.Distribution)
	assert.Equal(t, platform.FormFactorDesktop, info.FormFactor)
}
