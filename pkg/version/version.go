// Package version reports what the binary was built from.
package version

import "runtime/debug"

// gitCommit is set at link time: -ldflags "-X github.com/openshift/videa/pkg/version.gitCommit=..."
var gitCommit = ""

type Info struct {
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
}

// Get falls back to the VCS stamp go build embeds when no commit was linked in.
func Get() Info {
	info := Info{GitCommit: gitCommit}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.GitCommit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.GitCommit = s.Value
				}
			}
		}
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	return info
}
