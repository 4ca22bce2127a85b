// Package views holds the server-rendered pages.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/django/v3"
)

//go:embed *.html
var files embed.FS

// Engine returns the template engine over the embedded pages.
func Engine() *django.Engine {
	return django.NewFileSystem(http.FS(files), ".html")
}
