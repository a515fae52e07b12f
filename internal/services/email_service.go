package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendModuleRejectedEmail(email, moduleTitle, reason string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to WorkHub")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your WorkHub account has been created. Your team lead will assign
		your first modules shortly.</p>
		<p>Best regards,<br>The WorkHub Team</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendModuleRejectedEmail(email, moduleTitle, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Module returned for rework")

	body := fmt.Sprintf(`
		<h3>Your submission was rejected</h3>
		<p>Module: <strong>%s</strong></p>
		<p>Reason: %s</p>
		<p>Please restart the module and resubmit.</p>
	`, moduleTitle, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send rejection email: %w", err)
	}
	return nil
}
