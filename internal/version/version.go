package version

// Version is overridden at build time via -ldflags.
var Version = "dev"

func GetInfo() string {
	return Version
}
