package pressfront

import "embed"

// EmbeddedAssets holds the theme stylesheet served at /public/theme.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
