package nuex

import _ "embed"

// Version is the release of the nuex module.
//
//go:embed VERSION
var Version string
