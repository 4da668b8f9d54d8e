package web

import "embed"

// TemplatesFS embeds the HTML templates rendered by the handlers.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and other static assets.
//
//go:embed static/*
var StaticFS embed.FS

// DocsFS embeds the management API reference.
//
//go:embed docs/*
var DocsFS embed.FS
