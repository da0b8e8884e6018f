package version

// Version is the current version of lectio. It's set at build time via
// ldflags.
var Version = "dev"
