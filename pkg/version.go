package mddb

var (
	// Version of MDdb, set during build with ldflags.
	Version = "v0.1.0"
	// Build timestamp, set during build with ldflags.
	Build = "n/a"
)
