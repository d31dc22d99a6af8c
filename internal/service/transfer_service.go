package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
)

// TransferSvc is an implementation of the service.TransferService interface
type TransferSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	email  EmailService
}

// NewTransferService creates a new TransferSvc
func NewTransferService(deps Dependencies, email EmailService) *TransferSvc {
	return &TransferSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		email:  email,
	}
}

// PerformTransfer moves funds between two cards owned by the requester.
// Both cards are read under locks inside a single store transaction and
// both balance updates commit as one unit, so no concurrent operation can
// observe a single-leg state. Validation runs in a fixed order and the
// balance mutation is the last step.
func (s *TransferSvc) PerformTransfer(ctx context.Context, transfer *models.TransferRequest, requesterID int64) error {
	s.logger.Infof("Attempting to transfer %s from card %d to card %d for user %d",
		transfer.Amount, transfer.FromCardID, transfer.ToCardID, requesterID)

	if transfer.FromCardID == transfer.ToCardID {
		s.logger.Warnf("Transfer rejected: card %d used as both source and destination", transfer.FromCardID)
		return errs.New(errs.InvalidOperation, "Source and destination cards must be different.")
	}

	tx, err := s.repos.Card.BeginTransfer(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warnf("Failed to roll back transfer: %v", rbErr)
			}
		}
	}()

	// Cards are locked in ascending id order regardless of transfer
	// direction so two opposite transfers on the same pair cannot deadlock.
	firstID, secondID := transfer.FromCardID, transfer.ToCardID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := tx.GetForUpdate(ctx, firstID)
	if err != nil {
		return err
	}
	second, err := tx.GetForUpdate(ctx, secondID)
	if err != nil {
		return err
	}

	fromCard, toCard := first, second
	if fromCard.ID != transfer.FromCardID {
		fromCard, toCard = second, first
	}

	if err := s.validate(fromCard, toCard, transfer.Amount, requesterID); err != nil {
		return err
	}

	if err := tx.UpdateBalance(ctx, fromCard.ID, fromCard.Balance.Sub(transfer.Amount)); err != nil {
		return err
	}
	if err := tx.UpdateBalance(ctx, toCard.ID, toCard.Balance.Add(transfer.Amount)); err != nil {
		return err
	}

	// A cancelled caller must not leave a half-applied transfer behind.
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Conflict, "Transfer aborted before commit, safe to retry.", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	s.logger.Infof("Transfer from card %d to %d for amount %s completed successfully for user %d",
		fromCard.ID, toCard.ID, transfer.Amount, requesterID)

	go s.notify(requesterID, fromCard.ID, toCard.ID, transfer.Amount)

	return nil
}

func (s *TransferSvc) validate(fromCard, toCard *models.Card, amount decimal.Decimal, requesterID int64) error {
	if fromCard.OwnerID != requesterID {
		s.logger.Warnf("User %d attempted to access card %d owned by user %d",
			requesterID, fromCard.ID, fromCard.OwnerID)
		return errs.Newf(errs.AccessDenied, "Access denied to card %d", fromCard.ID)
	}
	if toCard.OwnerID != requesterID {
		s.logger.Warnf("User %d attempted to access card %d owned by user %d",
			requesterID, toCard.ID, toCard.OwnerID)
		return errs.Newf(errs.AccessDenied, "Access denied to card %d", toCard.ID)
	}

	if fromCard.Status != models.CardStatusActive {
		s.logger.Warnf("Transfer failed: source card %d is not active, status: %s", fromCard.ID, fromCard.Status)
		return errs.New(errs.InvalidOperation, "The source card is not active.")
	}

	if fromCard.IsExpiredAt(time.Now()) {
		s.logger.Warnf("Transfer failed: source card %d expired on %s",
			fromCard.ID, fromCard.ExpiryDate.Format("2006-01-02"))
		return errs.New(errs.InvalidOperation, "The source card has expired.")
	}

	if !amount.IsPositive() {
		s.logger.Warnf("Transfer failed: amount must be positive, requested: %s", amount)
		return errs.New(errs.InvalidOperation, "Transfer amount must be positive.")
	}

	if fromCard.Balance.LessThan(amount) {
		s.logger.Warnf("Transfer failed: insufficient funds on card %d, balance: %s, requested: %s",
			fromCard.ID, fromCard.Balance, amount)
		return errs.New(errs.InvalidOperation, "Insufficient funds on the source card.")
	}

	return nil
}

// notify sends a best-effort transfer notification; failure is only logged
func (s *TransferSvc) notify(userID, fromCardID, toCardID int64, amount decimal.Decimal) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.email.SendTransferNotification(ctx, userID, fromCardID, toCardID, amount); err != nil {
		s.logger.Warnf("Failed to send transfer notification: %v", err)
	}
}
