package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendOverdueAlertNotification(ctx context.Context, to, borrowerName, matricule, materielName string, daysOverdue int32) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Overdue loan: %s (%s)", borrowerName, matricule))

	body := fmt.Sprintf("The loan of '%s' by %s (matricule %s) is %d days overdue.\n\nPlease follow up with the borrower.", materielName, borrowerName, matricule, daysOverdue)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send overdue alert email: %w", err)
	}

	return nil
}

func (s *emailService) SendLowStockNotification(ctx context.Context, to, materielName string, unitsLeft int32) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Low stock: %s", materielName))

	body := fmt.Sprintf("Only %d units of '%s' remain available.\n\nConsider restocking before new loan requests arrive.", unitsLeft, materielName)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send low stock email: %w", err)
	}

	return nil
}
