package emailsender

import (
	"fmt"
	"reservation_service/internal/models"
	"strings"
)

const (
	CustomerSubject = "Reservation Confirmation"
	OwnerSubject    = "New Reservation"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML экранирует & < > " ' в пользовательских значениях.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// CustomerMessage возвращает тему и тело письма клиенту.
func CustomerMessage(r models.Reservation) (string, string) {
	body := fmt.Sprintf(
		"<p>Hi %s,</p>\n<p>Your reservation for %s at %s is confirmed!</p>\n<p>We look forward to seeing you ☕</p>",
		EscapeHTML(r.Name),
		EscapeHTML(r.Date),
		EscapeHTML(r.Time),
	)

	return CustomerSubject, body
}

// OwnerMessage возвращает тему и тело письма владельцу.
func OwnerMessage(r models.Reservation) (string, string) {
	body := fmt.Sprintf(
		"<p>%s booked for %s at %s.</p>\n<p>Email: %s</p>",
		EscapeHTML(r.Name),
		EscapeHTML(r.Date),
		EscapeHTML(r.Time),
		EscapeHTML(r.Email),
	)

	return OwnerSubject, body
}
