// Package web embeds the server-rendered views.
package web

import "embed"

// TemplatesFS holds the HTML templates the handlers render.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
