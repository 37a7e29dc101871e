package http

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFiles embed.FS

// staticAssets CSS и клиент WebSocket, отдаются под /static/
func staticAssets() fs.FS {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("embedded static directory is missing: " + err.Error())
	}
	return assets
}
