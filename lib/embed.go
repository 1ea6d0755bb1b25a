// Package lib holds the Wy standard library sources.
package lib

import "embed"

// FS contains std/*.wy, keyed by module path plus ".wy".
//
//go:embed std/*.wy
var FS embed.FS
