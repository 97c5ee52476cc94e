package info

import "runtime/debug"

var (
	// Version is the version of the app, set at build time with ldflags.
	Version = ""
)

func init() {
	if Version != "" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
		return
	}

	Version = "dev"
}
