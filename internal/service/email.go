package service

import (
	"fmt"
	"html"
	"net/smtp"
	"os"

	"github.com/pageza/reciperoulette/backend/config"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	frontendURL  string

	// sendMail is smtp.SendMail outside of tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService() *EmailService {
	service := &EmailService{
		smtpHost:     config.ReadSecret("smtp_host"),
		smtpPort:     config.ReadSecret("smtp_port"),
		smtpUsername: config.ReadSecret("smtp_username"),
		smtpPassword: config.ReadSecret("smtp_password"),
		fromEmail:    config.ReadSecret("email_from"),
		fromName:     config.ReadSecret("email_from_name"),
		frontendURL:  os.Getenv("FRONTEND_URL"),
		sendMail:     smtp.SendMail,
	}
	if service.fromName == "" {
		service.fromName = "Recipe Roulette"
	}
	if service.frontendURL == "" {
		service.frontendURL = "http://localhost:5173" // Development fallback
	}

	logrus.WithFields(logrus.Fields{
		"smtp_host": service.smtpHost,
		"from":      service.fromEmail,
	}).Debug("email service initialized")

	return service
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log the email instead
	if s.smtpHost == "" || s.smtpPort == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, email not sent")
		return nil
	}

	// Set up authentication
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	// Compose message
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := s.sendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	caser := cases.Title(language.English)
	subject := fmt.Sprintf("Welcome to Recipe Roulette, %s!", caser.String(user.Username))
	body := s.buildWelcomeEmailBody(user)
	return s.SendEmail(user.Email, subject, body)
}

func (s *EmailService) buildWelcomeEmailBody(user *models.User) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Welcome to Recipe Roulette!</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #E4572E; margin-top: 0;">Hello %s!</h2>
	<p>Your account is ready. Tell us what is in your fridge and we will suggest something to cook.</p>
	<ul style="padding-left: 20px;">
		<li><strong>Set your preferences:</strong> dietary needs, cuisines and ingredients to avoid</li>
		<li><strong>Generate recipes:</strong> pick ingredients, time and calories</li>
		<li><strong>Keep favorites:</strong> every recipe you open stays in your history</li>
	</ul>
	<p style="text-align: center; margin: 30px 0;">
		<a href="%s" style="background-color: #E4572E; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px;">Start cooking</a>
	</p>
	<p style="color: #666; font-size: 12px;">The Recipe Roulette Team</p>
</body>
</html>
	`, html.EscapeString(user.Username), s.frontendURL)
}
