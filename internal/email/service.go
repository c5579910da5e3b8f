package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"

	"github.com/mkovarik/social-api/internal/logging"
)

type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
	frontendURL  string
}

func NewService(smtpHost, smtpPort, smtpUser, smtpPassword, frontendURL string) *Service {
	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    smtpUser,
		frontendURL:  frontendURL,
	}
}

// RenderVerificationMessage produces the verification notification body for
// a freshly registered account. The body is a function of the username, the
// account id and the verification token, so the same inputs always render
// the same message.
func (s *Service) RenderVerificationMessage(username string, accountID uuid.UUID, token string) (string, error) {
	verificationLink := fmt.Sprintf("%s/verify?token=%s", s.frontendURL, token)

	t, err := template.New("verification").Parse(verificationTemplate)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		Username         string
		AccountID        string
		VerificationLink string
	}{
		Username:         username,
		AccountID:        accountID.String(),
		VerificationLink: verificationLink,
	}

	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// SendVerificationEmail renders and delivers the verification message.
// This method is designed to be called in a goroutine
func (s *Service) SendVerificationEmail(ctx context.Context, toEmail, username string, accountID uuid.UUID, token string) error {
	logger := logging.GetLoggerFromContext(ctx)

	subject := "Verify your email address"
	body, err := s.RenderVerificationMessage(username, accountID, token)
	if err != nil {
		logger.Error("failed to render email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, subject, body); err != nil {
		logger.Error("failed to send verification email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("verification email sent", "email", toEmail)
	return nil
}

func (s *Service) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	// Build message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg)
}

const verificationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background-color: #4F46E5;
            color: white;
            padding: 20px;
            text-align: center;
            border-radius: 5px 5px 0 0;
        }
        .content {
            background-color: #f9f9f9;
            padding: 30px;
            border-radius: 0 0 5px 5px;
        }
        .button {
            display: inline-block;
            background-color: #4F46E5;
            color: white !important;
            padding: 12px 30px;
            text-decoration: none;
            border-radius: 5px;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Welcome, {{.Username}}!</h1>
    </div>
    <div class="content">
        <h2>Verify your email address</h2>
        <p>Thank you for signing up! Please click the button below to verify your email address and activate your account.</p>

        <a href="{{.VerificationLink}}" class="button" style="color: white !important;">Verify Email Address</a>

        <p>Or copy and paste this link into your browser:</p>
        <p style="word-break: break-all; color: #4F46E5;">{{.VerificationLink}}</p>

        <p style="margin-top: 30px;">If you didn't create an account, you can safely ignore this email.</p>
    </div>
    <div class="footer">
        <p>This link will expire in 24 hours.</p>
        <p>Account reference: {{.AccountID}}</p>
    </div>
</body>
</html>
`
