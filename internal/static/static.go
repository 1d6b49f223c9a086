package static

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var StaticFS embed.FS

// Assets returns the embedded assets rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// the directory is embedded at compile time
		panic(err)
	}
	return sub
}
