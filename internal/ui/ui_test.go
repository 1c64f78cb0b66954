package ui

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certmint/certmint/internal/model"
)

func certData() CertificateData {
	return CertificateData{
		Name:      "Jane Doe",
		USN:       "1AB20CS001",
		College:   "ABC Institute",
		Type:      "Internship",
		Date:      "2024-01-01",
		Hours:     40,
		QRDataURL: "data:image/png;base64,AAAA",
	}
}

func TestRenderCertificateEmbedsFields(t *testing.T) {
	html, err := RenderCertificate(certData())
	require.NoError(t, err)

	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "1AB20CS001")
	assert.Contains(t, html, "ABC Institute")
	assert.Contains(t, html, "Internship")
	assert.Contains(t, html, "2024-01-01")
	assert.Contains(t, html, "40 hours")
	assert.Contains(t, html, `src="data:image/png;base64,AAAA"`)
}

func TestRenderCertificateIsDeterministic(t *testing.T) {
	first, err := RenderCertificate(certData())
	require.NoError(t, err)
	second, err := RenderCertificate(certData())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderCertificateEscapesFields(t *testing.T) {
	data := certData()
	data.Name = `<script>alert("x")</script>`

	html, err := RenderCertificate(data)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
}

func TestRenderLoginPage(t *testing.T) {
	rec := httptest.NewRecorder()
	Render(rec, "login.html", LoginData{AppName: "Certmint", Error: "Invalid credentials"})

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestRenderViewPage(t *testing.T) {
	rec := httptest.NewRecorder()
	Render(rec, "view.html", ViewData{
		AppName: "Certmint",
		Certificate: &model.Certificate{
			ID:       "abc-123",
			Name:     "Jane Doe",
			USN:      "1AB20CS001",
			College:  "ABC Institute",
			Filename: "abc-123.png",
		},
	})

	body := rec.Body.String()
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "/certs/abc-123.png")
	assert.Contains(t, body, "abc-123")
}
