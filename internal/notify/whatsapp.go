// Package notify builds the outbound notification surfaces: WhatsApp deep
// links for personal reservation invites and an optional Telegram announcer.
package notify

import (
	"net/url"
	"strings"
)

var phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// NormalizePhone strips formatting characters from a phone number and maps
// the 00 international prefix to +.
func NormalizePhone(phone string) string {
	p := phoneCleaner.Replace(strings.TrimSpace(phone))
	if strings.HasPrefix(p, "00") {
		p = "+" + p[2:]
	}
	return p
}

// WaMeLink returns a wa.me link that opens a chat with the phone number and
// the message prefilled. wa.me wants the number without the leading +.
func WaMeLink(phone, message string) string {
	digits := strings.TrimPrefix(NormalizePhone(phone), "+")
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}
