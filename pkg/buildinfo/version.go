// Package buildinfo holds the version stamped into jfreports at link time:
//
//	go build -ldflags "-X github.com/zwdscn-cloud/JFreports/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/zwdscn-cloud/JFreports/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/zwdscn-cloud/JFreports/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Set by -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build information reported by --version and /healthz.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the build information of the running binary.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}

// Template is the cobra version template.
func Template() string {
	return "{{.Name}} " + Current().String() + "\n"
}
