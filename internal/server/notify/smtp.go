package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

const verificationSubject = "Your resumehub verification code"

// seams for tests
var (
	sendMail = smtp.SendMail
	dialTLS  = func(ctx context.Context, addr string, cfg *tls.Config) (net.Conn, error) {
		d := &tls.Dialer{Config: cfg}
		return d.DialContext(ctx, "tcp", addr)
	}
)

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPNotifier mails verification codes. Port 465 uses implicit TLS;
// other ports go through smtp.SendMail, which upgrades with STARTTLS when offered.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendVerificationEmail(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("<p>Your verification code is <b>%s</b>.</p>", code)
	msg := buildMessage(n.cfg.From, email, verificationSubject, body)

	if err := n.send(ctx, email, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) auth() smtp.Auth {
	if n.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
}

func (n *SMTPNotifier) send(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)

	if n.cfg.Port != "465" {
		return sendMail(addr, n.auth(), n.cfg.From, []string{to}, msg)
	}

	// Implicit TLS for port 465
	conn, err := dialTLS(ctx, addr, &tls.Config{ServerName: n.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if a := n.auth(); a != nil {
		if err := client.Auth(a); err != nil {
			return err
		}
	}
	if err := client.Mail(n.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
