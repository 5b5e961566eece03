package web

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

// Embed static directory files
//
//go:embed all:static
var staticFiles embed.FS

// faviconSVG is an open book on the dark theme's purple
const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64"><rect width="64" height="64" rx="10" fill="#6200ea"/><path d="M12 18c7-3 13-3 20 1v29c-7-4-13-4-20-1z" fill="#fff"/><path d="M52 18c-7-3-13-3-20 1v29c7-4 13-4 20-1z" fill="#bb86fc"/></svg>`

var contentTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
}

// SetupStaticFiles configures static file serving using embedded files
func SetupStaticFiles(s *rweb.Server) {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logger.LogErr(err, "failed to get static subdirectory")
		return
	}

	s.Get("/favicon.ico", func(c rweb.Context) error {
		c.Response().SetHeader("Content-Type", "image/svg+xml")
		c.Response().SetHeader("Cache-Control", "public, max-age=86400")
		return c.Bytes([]byte(faviconSVG))
	})

	s.Get("/static/*", func(c rweb.Context) error {
		name := strings.TrimPrefix(c.Request().Path(), "/static/")
		content, err := readStatic(staticFS, name)
		if err != nil {
			c.SetStatus(http.StatusNotFound)
			return nil
		}

		if ct, ok := contentTypes[path.Ext(name)]; ok {
			c.Response().SetHeader("Content-Type", ct)
		}
		// Page links carry a ?v= cache buster
		c.Response().SetHeader("Cache-Control", "public, max-age=3600")
		return c.Bytes(content)
	})
}

// readStatic returns a regular file's bytes; directories and escapes are not found
func readStatic(fsys fs.FS, name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrNotExist
	}
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fs.ErrNotExist
	}
	return io.ReadAll(file)
}
