package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const sessionCookieName = "session"

// AuthService authenticates the single fixed admin identity and manages the
// session cookie. Sessions carry an absolute expiry: they are not refreshed
// on activity.
type AuthService struct {
	adminUser     string
	adminPass     string
	adminPassHash string // bcrypt; wins over adminPass when set
	secret        string
	expiry        time.Duration
	isProduction  bool
}

func NewAuthService(adminUser, adminPass, adminPassHash, secret string, expiry time.Duration, isProduction bool) *AuthService {
	return &AuthService{
		adminUser:     adminUser,
		adminPass:     adminPass,
		adminPassHash: adminPassHash,
		secret:        secret,
		expiry:        expiry,
		isProduction:  isProduction,
	}
}

// Login checks the submitted credentials against the configured admin
// identity.
func (s *AuthService) Login(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1

	var passOK bool
	if s.adminPassHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.adminPassHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1
	}

	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateSession returns a signed session token and its expiry time.
func (s *AuthService) GenerateSession() (string, time.Time, error) {
	expiresAt := time.Now().Add(s.expiry)
	claims := jwt.MapClaims{
		"sub": s.adminUser,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifySession validates a session token and returns the admin username it
// was issued for.
func (s *AuthService) VerifySession(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub != s.adminUser {
		return "", fmt.Errorf("invalid session subject")
	}

	return sub, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionCookie reads the raw session token from a request, or "".
func (s *AuthService) SessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
