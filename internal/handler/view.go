package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/certmint/certmint/internal/config"
	"github.com/certmint/certmint/internal/repository"
	"github.com/certmint/certmint/internal/service"
	"github.com/certmint/certmint/internal/storage"
	"github.com/certmint/certmint/internal/ui"
)

// viewHandler serves the public verification surface: the page the QR code
// links to, and the certificate images it embeds. No session required.
type viewHandler struct {
	certService *service.CertificateService
	store       storage.Storage
	cfg         *config.Config
}

func NewViewHandler(certService *service.CertificateService, store storage.Storage, cfg *config.Config) *viewHandler {
	return &viewHandler{certService: certService, store: store, cfg: cfg}
}

// ViewPage renders the certificate record for a scanned QR code.
func (h *viewHandler) ViewPage(w http.ResponseWriter, r *http.Request) {
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

	ui.Render(w, "view.html", ui.ViewData{AppName: h.cfg.AppName, Certificate: cert})
}

// Image streams a stored certificate image inline (the view page embeds it).
func (h *viewHandler) Image(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	rc, err := h.store.Open(r.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		// invalid names (traversal attempts) also land here
		slog.Warn("failed to open image", "filename", filename, "error", err)
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream image", "filename", filename, "error", err)
	}
}
