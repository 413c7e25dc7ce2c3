package emailrepo

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Repo interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpRepo struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTP(host, port, user, pass, from string) Repo {
	return &smtpRepo{host: host, port: port, user: user, pass: pass, from: from}
}

func (r *smtpRepo) Send(_ context.Context, to, subject, body string) error {
	if r.host == "" {
		return fmt.Errorf("smtp not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", r.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", r.user, r.pass, r.host)
	return smtp.SendMail(r.host+":"+r.port, auth, r.from, []string{to}, []byte(msg.String()))
}
