// Package version holds build information injected with ldflags:
//
//	go build -ldflags "-X github.com/petadoption/webclient/internal/version.tag=v1.0.0
//	  -X github.com/petadoption/webclient/internal/version.commit=abc1234
//	  -X github.com/petadoption/webclient/internal/version.date=2026-01-01"
package version

var (
	tag    = ""
	commit = "unknown"
	date   = "unknown"
)

// Info is the build information as printed by petctl version
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// String returns the tag, the commit for untagged builds, or "dev"
func String() string {
	if tag != "" {
		return tag
	}
	if commit != "unknown" {
		return commit
	}
	return "dev"
}

// Get returns the build information
func Get() Info {
	return Info{Version: String(), Commit: commit, Date: date}
}
