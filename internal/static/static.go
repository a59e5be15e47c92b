// Package static holds files embedded into the binary.
package static

import _ "embed"

// IndexHTML contains the embedded landing page served at the service root.
//
//go:embed index.html
var IndexHTML string
