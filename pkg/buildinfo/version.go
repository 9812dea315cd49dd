// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/gdsr/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/gdsr/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/gdsr/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/gdsr
package buildinfo

import (
	"fmt"

	"github.com/matzehuels/gdsr/pkg/gds"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("gdsr %s\ncommit: %s\nbuilt: %s\nstream version: %d", Version, Commit, Date, gds.StreamVersion)
}

// Template returns the version template string for cobra.
func Template() string {
	return "{{.Name}} version {{.Version}}\n" + fmt.Sprintf("commit: %s\nbuilt: %s\nstream version: %d\n", Commit, Date, gds.StreamVersion)
}
