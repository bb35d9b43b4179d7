// Package web provides the embedded static assets served at /static/:
// the public site script and stylesheet and the admin panel script and
// stylesheet.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
