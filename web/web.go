// Package web serves the kitchen's home page and its assets from the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// Static returns the embedded asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler serves index.html at "/" and every other asset by path.
func Handler() http.Handler {
	return http.FileServer(http.FS(Static()))
}
