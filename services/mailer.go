package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
)

// Mailer 邮件发送接口
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer 基于SMTP的HTML邮件发送器，465端口隐式TLS
type SMTPMailer struct {
	smtpHost string
	smtpPort string
	username string
	password string
}

func NewSMTPMailer(host, port, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		smtpHost: host,
		smtpPort: port,
		username: user,
		password: pass,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	from := m.username
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" + // required for HTML
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.smtpHost + ":" + m.smtpPort

	tlsConfig := &tls.Config{
		ServerName: m.smtpHost,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.smtpHost)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.smtpHost)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
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
