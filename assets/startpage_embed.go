package assets

import "embed"

// StartPage holds the bundled start document served for "start:".
//
//go:embed startpage/*
var StartPage embed.FS
