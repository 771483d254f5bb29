// Package web embeds the single-page segmentation UI.
package web

import "embed"

// Files holds the static frontend.
//
//go:embed index.html
var Files embed.FS
