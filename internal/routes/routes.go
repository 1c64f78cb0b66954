package routes

import (
	"net/http"

	"github.com/certmint/certmint/internal/app"
	"github.com/certmint/certmint/internal/handler"
	"github.com/certmint/certmint/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(a.AuthService, a.Cfg)
	cert := handler.NewCertificateHandler(a.CertificateService, a.Storage, a.Cfg)
	view := handler.NewViewHandler(a.CertificateService, a.Storage, a.Cfg)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /{$}", auth.Root)
	mux.HandleFunc("GET /login", auth.LoginPage)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("GET /view/{id}", view.ViewPage)
	mux.HandleFunc("GET /certs/{filename}", view.Image)

	// Admin
	mux.HandleFunc("GET /logout", middleware.RequireAuth(auth.Logout))
	mux.HandleFunc("GET /admin", middleware.RequireAuth(cert.AdminPage))
	mux.HandleFunc("GET /generate", middleware.RequireAuth(cert.GeneratePage))
	mux.HandleFunc("POST /generate", middleware.RequireAuth(cert.Generate))
	mux.HandleFunc("GET /download/{id}", middleware.RequireAuth(cert.Download))
	mux.HandleFunc("GET /download-all", middleware.RequireAuth(cert.DownloadAll))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.SessionMiddleware(a.AuthService),
	)
}
