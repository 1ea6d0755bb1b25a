// Package web holds the browser playground served at GET /.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static is the playground, rooted at the static directory.
var Static = mustSub(files, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
