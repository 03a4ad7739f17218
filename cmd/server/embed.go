//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

//go:embed web/dist
var webDist embed.FS

// Content types for the asset set the frontend build emits. Anything else
// falls through as HTML, which is what the SPA fallback serves anyway.
var assetContentTypes = map[string]string{
	".js":   "application/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
	".json": "application/json; charset=utf-8",
}

// setupStaticFiles serves the embedded frontend build. Unknown non-API paths
// get index.html so client-side routing keeps working after a refresh.
func setupStaticFiles(router *gin.Engine) {
	log.Println("📦 Using embedded frontend assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		log.Fatalf("Failed to get dist subdirectory: %v", err)
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if len(urlPath) >= 4 && urlPath[:4] == "/api" {
			c.JSON(404, gin.H{"detail": "API endpoint not found"})
			return
		}

		name := path.Clean(urlPath)
		if name == "/" {
			name = "index.html"
		} else {
			name = name[1:]
		}

		if content, err := fs.ReadFile(distFS, name); err == nil {
			contentType, ok := assetContentTypes[path.Ext(name)]
			if !ok {
				contentType = "text/html; charset=utf-8"
			}
			c.Data(http.StatusOK, contentType, content)
			return
		}

		index, err := fs.ReadFile(distFS, "index.html")
		if err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}
