// Package version carries build metadata of the mynd binary.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Overridden at build time via -ldflags "-X mynd/internal/version.Version=...".
var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is a trimmed snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Get returns the current metadata; an empty version reads as "dev".
func Get() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
}

// Colored renders major.minor.patch in three colors and keeps any
// pre-release suffix plain. color.NoColor switches the colors off.
func Colored(v string) string {
	core, suffix, hasSuffix := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}
