package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/certmint/certmint/internal/config"
	"github.com/certmint/certmint/internal/ctxkeys"
	"github.com/certmint/certmint/internal/service"
	"github.com/certmint/certmint/internal/ui"
)

type authHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *authHandler {
	return &authHandler{authService: authService, cfg: cfg}
}

// Root redirects to the login page.
func (h *authHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *authHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if ctxkeys.Admin(r.Context()) != "" {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	ui.Render(w, "login.html", ui.LoginData{AppName: h.cfg.AppName})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	err := h.authService.Login(username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
		}
		ui.Render(w, "login.html", ui.LoginData{AppName: h.cfg.AppName, Error: "Invalid credentials"})
		return
	}

	token, expiry, err := h.authService.GenerateSession()
	if err != nil {
		slog.Error("failed to generate session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.authService.SetSessionCookie(w, token, expiry)
	slog.Info("admin logged in", "username", username)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
