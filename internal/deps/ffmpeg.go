package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// MuxRequirements lists the binaries needed to mux videos. ffprobe is only
// required when output verification is enabled.
func MuxRequirements(ffmpegCommand, ffprobeCommand string, verify bool) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegCommand, Description: "Encodes still images and audio into video"},
		{Name: "FFprobe", Command: ffprobeCommand, Description: "Verifies muxed output", Optional: !verify},
	}
}

// ProbeSidecar resolves the ffprobe binary that ships with ffmpegCommand.
// Static ffmpeg builds put ffprobe in the same directory, so an executable
// sitting next to the resolved ffmpeg wins over PATH lookup. It returns
// "ffprobe" when no sidecar exists.
func ProbeSidecar(ffmpegCommand string) string {
	ffmpegCommand = strings.TrimSpace(ffmpegCommand)
	if ffmpegCommand != "" {
		if resolved, err := exec.LookPath(ffmpegCommand); err == nil {
			candidate := filepath.Join(filepath.Dir(resolved), executableName("ffprobe"))
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				return candidate
			}
		}
	}
	return "ffprobe"
}

// ResolveProbe returns probeCommand unless it is empty or the bare default
// "ffprobe", in which case the sidecar of ffmpegCommand is preferred.
func ResolveProbe(ffmpegCommand, probeCommand string) string {
	probeCommand = strings.TrimSpace(probeCommand)
	if probeCommand != "" && probeCommand != "ffprobe" {
		return probeCommand
	}
	return ProbeSidecar(ffmpegCommand)
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
