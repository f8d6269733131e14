// Package version reports build metadata for direxport.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set with -ldflags "-X direxport/pkg/version.Version=..." at release time.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the build metadata of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// ShortCommit trims the commit hash to seven characters.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// String renders the first line as "direxport <version>" followed by one
// indented key/value line per known field. Unset build fields are omitted.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "direxport %s\n", i.Version)
	if c := i.ShortCommit(); c != "" {
		fmt.Fprintf(&b, "  commit:   %s\n", c)
	}
	if i.BuildTime != "" {
		fmt.Fprintf(&b, "  built:    %s\n", i.BuildTime)
	}
	fmt.Fprintf(&b, "  go:       %s\n", i.GoVersion)
	fmt.Fprintf(&b, "  platform: %s", i.Platform)
	return b.String()
}
