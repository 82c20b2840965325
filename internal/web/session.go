package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const adminCookie = "bb_admin"

// sessionToken derives the admin session cookie value from the secret. There
// is a single admin identity, so the cookie only has to prove knowledge of
// the secret.
func (s *Server) sessionToken() string {
	mac := hmac.New(sha256.New, s.sessionSecret)
	mac.Write([]byte("admin-session"))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Server) setAdminSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookie,
		Value:    s.sessionToken(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAdminSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (s *Server) isAdmin(r *http.Request) bool {
	c, err := r.Cookie(adminCookie)
	if err != nil || c.Value == "" {
		return false
	}
	return hmac.Equal([]byte(c.Value), []byte(s.sessionToken()))
}

// requireAdmin redirects anonymous requests to the login page and reports
// whether the request may proceed.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.isAdmin(r) {
		return true
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	return false
}

// credentialsOK compares the submitted credentials against the configured
// ones in constant time, hashing first so the comparison length is fixed.
func (s *Server) credentialsOK(username, password string) bool {
	gotUser := sha256.Sum256([]byte(username))
	wantUser := sha256.Sum256([]byte(s.adminUser))
	gotPass := sha256.Sum256([]byte(password))
	wantPass := sha256.Sum256([]byte(s.adminPass))

	userOK := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
	passOK := subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
	return userOK && passOK
}
