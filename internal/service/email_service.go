package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/crudmaker/Bank-REST/configs"
	"github.com/crudmaker/Bank-REST/internal/repository"
)

// EmailSvc is an implementation of the service.EmailService interface
type EmailSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewEmailService creates a new EmailSvc
func NewEmailService(deps Dependencies) *EmailSvc {
	return &EmailSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// SendTransferNotification emails the card owner about a completed transfer
func (s *EmailSvc) SendTransferNotification(ctx context.Context, userID, fromCardID, toCardID int64, amount decimal.Decimal) error {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user for notification: %w", err)
	}

	subject := "Transfer completed"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour transfer of %s from card #%d to card #%d has been completed.\n\nIf you did not initiate this transfer, please block your card immediately.",
		user.OwnerName, amount, fromCardID, toCardID,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.Email.SenderEmail)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(
		s.config.Email.SMTPHost,
		s.config.Email.SMTPPort,
		s.config.Email.SMTPUser,
		s.config.Email.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Transfer notification sent to user %d", userID)
	return nil
}
