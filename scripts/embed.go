// Package scripts embeds the default Risor scripts.
package scripts

import "embed"

// FS holds the default scripts, rooted at this directory.
//
//go:embed *.risor
var FS embed.FS

// Document is the path within FS of the default documentability predicate.
const Document = "document.risor"
