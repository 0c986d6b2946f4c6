package app

import (
	"fmt"
	"runtime/debug"

	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

// Build-time variables set via ldflags.
var (
	Version    = "dev"
	GitCommit  = "unknown"
	GitTag     = ""
	CommitDate = ""
	BuildTime  = "unknown"
)

// VersionInfo contains version information for the application.
type VersionInfo struct {
	Version    string
	GitCommit  string
	GitTag     string
	CommitDate string
	BuildTime  string
}

// GetVersionInfo returns the current version information. When the binary
// was built without ldflags, the commit comes from the embedded VCS stamp.
func GetVersionInfo() VersionInfo {
	v := VersionInfo{
		Version:    Version,
		GitCommit:  GitCommit,
		GitTag:     GitTag,
		CommitDate: CommitDate,
		BuildTime:  BuildTime,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		v.fillFromBuildSettings(info.Settings)
	}
	return v
}

func (v *VersionInfo) fillFromBuildSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if v.GitCommit == "" || v.GitCommit == "unknown" {
				v.GitCommit = s.Value
			}
		case "vcs.time":
			if v.CommitDate == "" && len(s.Value) >= len("2006-01-02") {
				v.CommitDate = s.Value[:len("2006-01-02")]
			}
		}
	}
}

// DisplayVersion is the tag when the build has one, the version otherwise.
func (v VersionInfo) DisplayVersion() string {
	if v.GitTag != "" {
		return v.GitTag
	}
	return v.Version
}

// ShortCommit returns the first seven characters of the commit hash.
func (v VersionInfo) ShortCommit() string {
	if len(v.GitCommit) > 7 {
		return v.GitCommit[:7]
	}
	return v.GitCommit
}

// HasCommit reports whether the commit is known.
func (v VersionInfo) HasCommit() bool {
	return v.GitCommit != "" && v.GitCommit != "unknown"
}

// Describe renders the localized version lines shown by the about view.
func (v VersionInfo) Describe(tr ports.Translator) []string {
	lines := []string{tr.T("version-description", map[string]any{"version": v.DisplayVersion()})}
	if v.HasCommit() {
		lines = append(lines, tr.T("git-description", map[string]any{
			"hash": v.ShortCommit(),
			"date": v.CommitDate,
		}))
	}
	return lines
}

// FullString returns a detailed version string for logging.
func (v VersionInfo) FullString() string {
	return fmt.Sprintf("Ethereal Waves %s (commit: %s, built: %s)", v.DisplayVersion(), v.GitCommit, v.BuildTime)
}
