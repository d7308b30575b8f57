// Package version holds the build version of deref.
package version

// Name is the product name used in the outbound User-Agent.
const Name = "Deref"

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"
