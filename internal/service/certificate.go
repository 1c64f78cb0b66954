package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/certmint/certmint/internal/model"
	"github.com/certmint/certmint/internal/qr"
	"github.com/certmint/certmint/internal/repository"
	"github.com/certmint/certmint/internal/storage"
	"github.com/certmint/certmint/internal/ui"
)

// Rasterizer turns a rendered HTML document into PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) ([]byte, error)
}

// IssueInput is the recipient metadata submitted by the generate form.
// Fields are stored as supplied; Hours falls back to 0 when unparsable.
type IssueInput struct {
	Name    string
	USN     string
	College string
	Type    string
	Date    string
	Hours   string
	Email   string // optional: send the verification link here after issuance
}

// CertificateService runs the issuance pipeline: allocate an id, encode the
// verification QR, render the document, rasterize it, store the image, and
// persist the record. Rasterization is bounded by a semaphore so concurrent
// requests cannot spawn unbounded browser processes.
type CertificateService struct {
	repo       repository.CertificateRepository
	store      storage.Storage
	rasterizer Rasterizer
	notifier   *EmailService // nil disables notifications
	appURL     string
	renderSem  chan struct{}
}

func NewCertificateService(repo repository.CertificateRepository, store storage.Storage, rasterizer Rasterizer, notifier *EmailService, appURL string, maxConcurrentRenders int) *CertificateService {
	if maxConcurrentRenders < 1 {
		maxConcurrentRenders = 1
	}
	return &CertificateService{
		repo:       repo,
		store:      store,
		rasterizer: rasterizer,
		notifier:   notifier,
		appURL:     appURL,
		renderSem:  make(chan struct{}, maxConcurrentRenders),
	}
}

// VerificationURL is the public link encoded into the certificate's QR code.
func (s *CertificateService) VerificationURL(id string) string {
	return fmt.Sprintf("%s/view/%s", s.appURL, id)
}

// Issue runs the full pipeline for one certificate. Any step failing aborts
// the remaining steps; a record insert failure deletes the already-stored
// image so no orphan survives a failed request.
func (s *CertificateService) Issue(ctx context.Context, input IssueInput) (*model.Certificate, error) {
	id := uuid.NewString()
	filename := id + ".png"

	hours, err := strconv.Atoi(input.Hours)
	if err != nil || hours < 0 {
		hours = 0
	}

	qrDataURL, err := qr.DataURL(s.VerificationURL(id))
	if err != nil {
		return nil, fmt.Errorf("encode verification qr: %w", err)
	}

	html, err := ui.RenderCertificate(ui.CertificateData{
		Name:      input.Name,
		USN:       input.USN,
		College:   input.College,
		Type:      input.Type,
		Date:      input.Date,
		Hours:     hours,
		QRDataURL: template.URL(qrDataURL),
	})
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	png, err := s.rasterize(ctx, html)
	if err != nil {
		return nil, err
	}

	err = s.store.Save(ctx, filename, bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("store certificate image: %w", err)
	}

	cert := &model.Certificate{
		ID:        id,
		Name:      input.Name,
		USN:       input.USN,
		College:   input.College,
		Type:      input.Type,
		Date:      input.Date,
		Hours:     hours,
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
	}

	err = s.repo.Insert(cert)
	if err != nil {
		// The image is already written; remove it so a failed request
		// leaves nothing behind.
		if delErr := s.store.Delete(ctx, filename); delErr != nil {
			slog.Error("failed to clean up image after insert failure", "filename", filename, "error", delErr)
		}
		return nil, fmt.Errorf("insert certificate record: %w", err)
	}

	slog.Info("certificate issued", "id", id, "name", input.Name, "type", input.Type)

	if input.Email != "" && s.notifier != nil {
		// Notification failure never fails the request: the certificate
		// already exists.
		if err := s.notifier.SendIssued(input.Email, input.Name, s.VerificationURL(id)); err != nil {
			slog.Warn("certificate notification failed", "id", id, "error", err)
		}
	}

	return cert, nil
}

// List returns all certificates, newest first.
func (s *CertificateService) List() ([]*model.Certificate, error) {
	return s.repo.List()
}

// ByID returns one certificate or repository.ErrCertificateNotFound.
func (s *CertificateService) ByID(id string) (*model.Certificate, error) {
	return s.repo.ByID(id)
}

func (s *CertificateService) rasterize(ctx context.Context, html string) ([]byte, error) {
	select {
	case s.renderSem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.renderSem }()

	return s.rasterizer.Rasterize(ctx, html)
}
