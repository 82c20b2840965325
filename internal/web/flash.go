package web

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "bb_flash"

// Flash is a one-shot message surfaced on the next rendered page.
type Flash struct {
	Message string
	Level   string // success, warning, error
}

func setFlash(w http.ResponseWriter, message, level string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(level + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the flash cookie so the message renders exactly
// once.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	level, message, found := strings.Cut(raw, "|")
	if !found {
		return &Flash{Message: raw, Level: "success"}
	}
	return &Flash{Message: message, Level: level}
}
