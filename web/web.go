// Package web holds the embedded landing page.
package web

import _ "embed"

//go:embed main.html
var MainHTML []byte
