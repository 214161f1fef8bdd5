// Package tangle holds module-level metadata.
package tangle

// Version is the current tangle release.
const Version = "0.1.0"
