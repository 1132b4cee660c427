// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Build metadata, stamped by the .dagger release build through -ldflags -X
// and printed by "iris version". The defaults mark a local dev build.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
