package system

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// CheckFFmpeg reports whether the ffmpeg binary is on PATH.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return nil
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), name) {
			return name
		}
	}
	return "libx264"
}

// DefaultWorkers is the number of physical cores, or GOMAXPROCS when the
// count is unavailable.
func DefaultWorkers() int {
	n, err := cpu.Counts(false)
	if err != nil || n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// FrameBudget bounds how many rendered frames of frameBytes each may be
// alive at once: at least one per worker, at most a quarter of available
// memory.
func FrameBudget(frameBytes, workers int) int {
	minFrames := workers + 1
	maxFrames := workers * 4
	if frameBytes <= 0 {
		return maxFrames
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return maxFrames
	}

	n := int(vm.Available / 4 / uint64(frameBytes))
	if n < minFrames {
		return minFrames
	}
	if n > maxFrames {
		return maxFrames
	}
	return n
}
