package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
}

// EmailService implements the EmailService interface
type EmailService struct {
	config    *EmailConfig
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates map[string]*template.Template
}

// Templates are kept inline so the binary carries no runtime asset
// dependency.
var templateSources = map[string]string{
	"welcome": `<html>
  <body style="font-family: sans-serif; color: #333;">
    <h2>Welcome to {{.CompanyName}}!</h2>
    <p>Thanks for joining our newsletter. You'll be the first to hear about
    new upcycled arrivals, restocks and subscriber-only offers.</p>
    <p>&mdash; The {{.CompanyName}} team</p>
  </body>
</html>`,
}

// NewEmailService creates a new email service instance
func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	client := sendgrid.NewSendClient(config.SendGridAPIKey)

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	return &EmailService{
		config:    config,
		logger:    logger,
		client:    client,
		templates: templates,
	}, nil
}

func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	for name, source := range templateSources {
		tmpl, err := template.New(name).Parse(source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return templates, nil
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")

	return nil
}

// renderTemplate renders an email template with the provided data
func (e *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := e.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

// WelcomeEmailData holds data for the newsletter welcome template
type WelcomeEmailData struct {
	CompanyName string
}

// SendWelcomeEmail sends the newsletter welcome email
func (e *EmailService) SendWelcomeEmail(ctx context.Context, email string) error {
	data := WelcomeEmailData{
		CompanyName: e.config.CompanyName,
	}

	htmlContent, err := e.renderTemplate("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome email template: %w", err)
	}

	subject := fmt.Sprintf("Welcome to %s", e.config.CompanyName)

	return e.sendEmail(email, subject, htmlContent)
}
