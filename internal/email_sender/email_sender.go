package emailsender

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer отправляет HTML-письма через SMTP-релей почтового сервиса.
// Диалер создается один раз, каждое письмо открывает своё соединение.
type Mailer struct {
	dialer dialer
}

func New(host string, port int, username, apiKey string) *Mailer {
	// на порту 465 неявный TLS, иначе STARTTLS
	return &Mailer{dialer: gomail.NewDialer(host, port, username, apiKey)}
}

func (m *Mailer) SendEmail(ctx context.Context, from, to, subject, html string) error {
	const op = "emailsender.SendEmail"

	// gomail не принимает контекст: отмена видна только до начала SMTP-сессии
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
