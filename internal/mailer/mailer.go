package mailer

import (
	"fmt"
	"net"
	"net/smtp"
)

// Mailer отправляет письма с кодом подтверждения через SMTP.
type Mailer struct {
	addr     string
	user     string
	password string
	from     string
}

// New создаёт мейлер. addr в формате host:port.
func New(addr, user, password, from string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{
		addr:     addr,
		user:     user,
		password: password,
		from:     from,
	}
}

// SendVerificationCode отправляет письмо с шестизначным кодом подтверждения.
func (m *Mailer) SendVerificationCode(recipient, username, code string) error {
	subject := "Mystry Message || Код подтверждения"
	body := fmt.Sprintf(
		"Здравствуйте, %s!\r\n\r\n"+
			"Спасибо за регистрацию. Введите этот код, чтобы завершить её:\r\n\r\n"+
			"    %s\r\n\r\n"+
			"Код действует один час. Если вы не запрашивали код, просто проигнорируйте это письмо.\r\n",
		username, code,
	)
	return m.send(recipient, subject, body)
}

// send выполняет отправку через smtp.SendMail с PLAIN аутентификацией.
func (m *Mailer) send(recipient, subject, body string) error {
	if m.addr == "" || m.user == "" {
		return fmt.Errorf("mailer: SMTP не сконфигурирован")
	}

	host, _, err := net.SplitHostPort(m.addr)
	if err != nil {
		return fmt.Errorf("mailer: некорректный SMTP_ADDR (ожидается host:port): %w", err)
	}

	auth := smtp.PlainAuth("", m.user, m.password, host)

	msg := []byte("From: Mystry Message <" + m.from + ">\r\n" +
		"To: " + recipient + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.addr, auth, m.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("mailer: не удалось отправить письмо: %w", err)
	}

	return nil
}
