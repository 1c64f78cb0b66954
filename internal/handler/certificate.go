package handler

import (
	"archive/zip"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/certmint/certmint/internal/browser"
	"github.com/certmint/certmint/internal/config"
	"github.com/certmint/certmint/internal/repository"
	"github.com/certmint/certmint/internal/service"
	"github.com/certmint/certmint/internal/storage"
	"github.com/certmint/certmint/internal/ui"
)

type certificateHandler struct {
	certService *service.CertificateService
	store       storage.Storage
	cfg         *config.Config
}

func NewCertificateHandler(certService *service.CertificateService, store storage.Storage, cfg *config.Config) *certificateHandler {
	return &certificateHandler{certService: certService, store: store, cfg: cfg}
}

// AdminPage lists all issued certificates, newest first.
func (h *certificateHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	certs, err := h.certService.List()
	if err != nil {
		slog.Error("failed to list certificates", "error", err)
		http.Error(w, "failed to load certificates", http.StatusInternalServerError)
		return
	}

	ui.Render(w, "admin.html", ui.AdminData{AppName: h.cfg.AppName, Certificates: certs})
}

func (h *certificateHandler) GeneratePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, "generate.html", ui.GenerateData{AppName: h.cfg.AppName})
}

// Generate runs the issuance pipeline and redirects to the admin listing on
// success. All pipeline failures are terminal for the request; a missing
// browser is reported with remediation instructions.
func (h *certificateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	input := service.IssueInput{
		Name:    r.FormValue("name"),
		USN:     r.FormValue("usn"),
		College: r.FormValue("college"),
		Type:    r.FormValue("type"),
		Date:    r.FormValue("date"),
		Hours:   r.FormValue("hours"),
		Email:   strings.TrimSpace(r.FormValue("email")),
	}

	_, err := h.certService.Issue(r.Context(), input)
	if err != nil {
		slog.Error("certificate generation failed", "error", err)
		if errors.Is(err, browser.ErrNotFound) {
			http.Error(w, "No Chrome/Chromium executable found on server. Set environment variable CHROME_PATH to your browser executable path and restart the server.", http.StatusInternalServerError)
			return
		}
		http.Error(w, "Failed to generate certificate: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Download streams one certificate image as an attachment.
func (h *certificateHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cert, err := h.certService.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCertificateNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to load certificate", "id", id, "error", err)
		http.Error(w, "failed to load certificate", http.StatusInternalServerError)
		return
	}

	rc, err := h.store.Open(r.Context(), cert.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to open certificate image", "filename", cert.Filename, "error", err)
		http.Error(w, "failed to open certificate image", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cert.Filename))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream certificate image", "filename", cert.Filename, "error", err)
	}
}

// DownloadAll streams a ZIP archive of every stored certificate image,
// built on the fly at maximum compression.
func (h *certificateHandler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("failed to list certificate images", "error", err)
		http.Error(w, "failed to list certificate images", http.StatusInternalServerError)
		return
	}

	zipName := fmt.Sprintf("all-certificates-%d.zip", time.Now().UnixMilli())
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", zipName))

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, name := range names {
		// only bundle images, skip any stray files
		if !strings.HasSuffix(name, ".png") {
			continue
		}

		rc, err := h.store.Open(r.Context(), name)
		if err != nil {
			slog.Warn("skipping unreadable image in archive", "name", name, "error", err)
			continue
		}

		entry, err := zw.Create(name)
		if err != nil {
			rc.Close()
			slog.Error("failed to add archive entry", "name", name, "error", err)
			return
		}
		if _, err := io.Copy(entry, rc); err != nil {
			rc.Close()
			slog.Error("failed to write archive entry", "name", name, "error", err)
			return
		}
		rc.Close()
	}

	if err := zw.Close(); err != nil {
		slog.Error("failed to finalize archive", "error", err)
	}
}
