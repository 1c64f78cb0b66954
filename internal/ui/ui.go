// Package ui renders the server's HTML: the admin pages, the public
// verification page, and the certificate document itself.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/certmint/certmint/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// CertificateData is the input to the certificate document template. The
// template has no time-dependent fields, so output is deterministic for a
// given input.
type CertificateData struct {
	Name      string
	USN       string
	College   string
	Type      string
	Date      string
	Hours     int
	QRDataURL template.URL
}

// RenderCertificate produces the complete HTML document for one certificate,
// ready for rasterization.
func RenderCertificate(data CertificateData) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "certificate.html", data)
	if err != nil {
		return "", fmt.Errorf("render certificate template: %w", err)
	}
	return buf.String(), nil
}

// LoginData feeds the login page.
type LoginData struct {
	AppName string
	Error   string
}

// AdminData feeds the admin listing page.
type AdminData struct {
	AppName      string
	Certificates []*model.Certificate
}

// ViewData feeds the public verification page.
type ViewData struct {
	AppName     string
	Certificate *model.Certificate
}

// GenerateData feeds the generate form page.
type GenerateData struct {
	AppName string
}

// Render writes the named page template to w, answering 500 if rendering
// fails. Pages are rendered to a buffer first so a template error never
// produces a half-written response.
func Render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, name, data)
	if err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	if err != nil {
		slog.Error("render write failed", "template", name, "error", err)
	}
}
