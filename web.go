package swimtrack

import "embed"

// WebFS holds the built single-page frontend served by cmd/swimtrack.
//
//go:embed web/dist
var WebFS embed.FS
