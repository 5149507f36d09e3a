// Package version reports build information for cfgload.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Set with -ldflags "-X github.com/sonemaro/cfgload/internal/version.Version=..."
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// maxListedDeps caps the dependency list in FullVersion.
const maxListedDeps = 10

// BuildInfo contains build and runtime information
type BuildInfo struct {
	Version   string   `json:"version"`
	SemVer    string   `json:"semver"`
	BuildDate string   `json:"build_date"`
	GitCommit string   `json:"git_commit"`
	Module    string   `json:"module"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	NumCPU    int      `json:"num_cpu"`
	Deps      []Module `json:"deps"`
}

// Module represents a Go module dependency
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// GetBuildInfo collects the version variables and the embedded module
// information.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		SemVer:    strings.TrimPrefix(strings.Split(Version, "-")[0], "v"),
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		Module:    "unknown",
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:    runtime.NumCPU(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if bi.Main.Path != "" {
		info.Module = bi.Main.Path
	}
	for _, setting := range bi.Settings {
		if setting.Key == "vcs.revision" && info.GitCommit == "unknown" {
			info.GitCommit = setting.Value
		}
	}
	for _, dep := range bi.Deps {
		info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
	}

	return info
}

// FullVersion returns a formatted string with complete version information
func FullVersion() string {
	info := GetBuildInfo()

	var b strings.Builder
	fmt.Fprintf(&b, "cfgload %s\n", info.Version)
	b.WriteString("========================================\n\n")

	fmt.Fprintf(&b, "  Semantic Ver: %s\n", info.SemVer)
	fmt.Fprintf(&b, "  Build Date:   %s\n", info.BuildDate)
	fmt.Fprintf(&b, "  Commit:       %s\n", info.GitCommit)
	fmt.Fprintf(&b, "  Module:       %s\n", info.Module)
	fmt.Fprintf(&b, "  Go Version:   %s\n", info.GoVersion)
	fmt.Fprintf(&b, "  Platform:     %s\n", info.Platform)
	fmt.Fprintf(&b, "  CPUs:         %d\n", info.NumCPU)

	if len(info.Deps) > 0 {
		b.WriteString("\nDependencies:\n")
		for i, dep := range info.Deps {
			if i == maxListedDeps {
				fmt.Fprintf(&b, "  ... and %d more\n", len(info.Deps)-maxListedDeps)
				break
			}
			fmt.Fprintf(&b, "  - %s@%s\n", dep.Path, dep.Version)
		}
	}

	return b.String()
}
