package api

import (
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/pahe-web-go/api/handlers"
	"github.com/yourusername/pahe-web-go/api/middleware"
	"github.com/yourusername/pahe-web-go/internal/app"
	"github.com/yourusername/pahe-web-go/web"
)

// SetupRouter sets up the HTTP router: the JSON API plus the embedded UI
func SetupRouter(
	supervisor *app.Supervisor,
	search *app.SearchService,
	library *app.LibraryService,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	hub := handlers.NewActivityHub(log)
	searchHandler := handlers.NewSearchHandler(search, log)
	downloadHandler := handlers.NewDownloadHandler(supervisor, library, hub, log)
	libraryHandler := handlers.NewLibraryHandler(library, log)
	healthHandler := handlers.NewHealthHandler(supervisor)

	router.POST("/search", searchHandler.Search)
	router.POST("/download", downloadHandler.StartDownload)
	router.POST("/download/cancel", downloadHandler.CancelDownload)
	router.GET("/downloads", libraryHandler.ListDownloads)

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	router.GET("/ws/activity", hub.HandleWebSocket)

	// Embedded browser UI
	staticFS := web.GetStaticFS()
	router.GET("/", func(c *gin.Context) {
		serveFile(c, staticFS, "index.html")
	})
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		filePath := strings.TrimPrefix(c.Request.URL.Path, "/")
		if _, err := fs.Stat(staticFS, filePath); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		serveFile(c, staticFS, filePath)
	})

	return router
}

// serveFile serves a file from the embedded filesystem with a content type
// derived from its extension
func serveFile(c *gin.Context, staticFS fs.FS, filePath string) {
	file, err := staticFS.Open(filePath)
	if err != nil {
		c.String(http.StatusNotFound, "File not found: %v", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to read file: %v", err)
		return
	}

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(filePath, ".html"):
		contentType = "text/html; charset=utf-8"
	case strings.HasSuffix(filePath, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(filePath, ".js"):
		contentType = "application/javascript; charset=utf-8"
	case strings.HasSuffix(filePath, ".json"):
		contentType = "application/json; charset=utf-8"
	case strings.HasSuffix(filePath, ".svg"):
		contentType = "image/svg+xml"
	case strings.HasSuffix(filePath, ".png"):
		contentType = "image/png"
	}

	c.Data(http.StatusOK, contentType, content)
}
