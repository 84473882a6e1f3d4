package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/zenmart/auth-service/pkg/logger"
	"go.uber.org/zap"
)

const resetMailTemplate = `From: {{ .From }}
To: {{ .To }}
Subject: Password reset request
MIME-Version: 1.0
Content-Type: text/plain; charset="utf-8"

Hi {{ default "there" .Name }},

A password reset was requested for your account. Open the link below
within 15 minutes to choose a new password:

{{ .ResetLink }}

If you did not request this, you can safely ignore this message.
`

// SMTPNotifier delivers reset links over SMTP.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	tmpl     *template.Template
}

func NewSMTPNotifier(host string, port int, username, password, from string) (*SMTPNotifier, error) {
	tmpl, err := template.New("reset_mail").Funcs(sprig.FuncMap()).Parse(resetMailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reset mail template: %w", err)
	}

	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		tmpl:     tmpl,
	}, nil
}

func (n *SMTPNotifier) SendResetLink(ctx context.Context, to Recipient, resetLink string) error {
	if to.Email == "" {
		return nil
	}

	var body bytes.Buffer
	err := n.tmpl.Execute(&body, map[string]string{
		"From":      n.from,
		"To":        to.Email,
		"Name":      to.Name,
		"ResetLink": resetLink,
	})
	if err != nil {
		return fmt.Errorf("failed to render reset mail: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := smtp.SendMail(addr, auth, n.from, []string{to.Email}, body.Bytes()); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	logger.GetLogger().Info("Reset link mailed",
		zap.String("to", to.Email),
	)

	return nil
}
