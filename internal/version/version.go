// internal/version/version.go
package version

// Version is stamped at release time via -ldflags "-X qcrules/internal/version.Version=…".
var Version = "0.3.0"
