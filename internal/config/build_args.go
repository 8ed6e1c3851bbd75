package config

import "fmt"

// The following vars are set via -ldflags at build time
var (
	ModuleName = "github.com/chapool/web3connect"
	Commit     = "< 40 chars git commit hash via ldflags >"
	BuildDate  = "1970-01-01T00:00:00Z"
)

// GetFormattedBuildArgs returns the version line printed by --version.
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
