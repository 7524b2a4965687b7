// Package templates embeds the HTML for the server-rendered pages.
package templates

import "embed"

//go:embed base.html pages/*.html
var FS embed.FS
