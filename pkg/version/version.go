// Package version reports which build of pc is running. The variables are
// stamped with -ldflags "-X github.com/sharkusmanch/pc/pkg/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

// Name is the program name used in version output and request headers.
const Name = "pc"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info describes a build. It is printed by "pc version --json".
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the running build.
func Get() Info {
	return Info{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s, %s)",
		i.Name, i.Version, i.Commit, i.Date, i.GoVersion, i.Platform)
}

// Short returns only the version number.
func (i Info) Short() string {
	return i.Version
}

// UserAgent is the User-Agent header sent to paste servers, e.g. "pc/1.2.0".
func (i Info) UserAgent() string {
	return i.Name + "/" + i.Version
}
