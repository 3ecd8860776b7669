package websegment

import "embed"

// EmbeddedAssets contains the browser side of the shell: shell.js swaps the
// outlet on navigation and shell.css styles the splash screen and fades.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
