package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/logger"
)

// Mailer sends transactional email through Resend. When the mail config is
// incomplete it degrades to a no-op so local environments work without an
// API key.
type Mailer struct {
	client  *resend.Client
	cfg     config.MailConfig
	baseURL string
	logg    *logger.Logger
}

// New constructs a Mailer. The returned mailer is safe to use even when
// mail is disabled.
func New(cfg config.MailConfig, appCfg config.AppConfig, logg *logger.Logger) *Mailer {
	m := &Mailer{
		cfg:     cfg,
		baseURL: appCfg.BaseURL,
		logg:    logg,
	}
	if cfg.Enabled() {
		m.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return m
}

// SendWelcome greets a newly registered account.
func (m *Mailer) SendWelcome(ctx context.Context, toEmail, toName string) error {
	subject := "Welcome to Amplify Audio Sphere"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account is ready. Sign in to start distributing your music.</p>",
		toName,
	)
	return m.send(ctx, toEmail, subject, html)
}

// SendPasswordReset delivers a single-use reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, toEmail, toName, token string) error {
	subject := "Reset your password"
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Use the link below to choose a new password. The link expires soon and works once.</p><p><a href=\"%s/reset-password?token=%s\">Reset password</a></p>",
		toName, m.baseURL, token,
	)
	return m.send(ctx, toEmail, subject, html)
}

func (m *Mailer) send(ctx context.Context, toEmail, subject, html string) error {
	if m.client == nil {
		m.logg.Info(m.logg.WithField(ctx, "subject", subject), "mail disabled, skipping send")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    m.cfg.FromAddress,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}
	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send mail")
	}

	m.logg.Info(m.logg.WithField(ctx, "message_id", sent.Id), "mail sent")
	return nil
}
