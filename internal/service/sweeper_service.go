package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
)

// SweeperSvc flips ACTIVE cards past their expiry date to EXPIRED. The
// schedule is wired by the caller; the service only exposes Run.
type SweeperSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewSweeperService creates a new SweeperSvc
func NewSweeperService(deps Dependencies) *SweeperSvc {
	return &SweeperSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// Run expires all ACTIVE cards whose expiry date is before now and
// returns the number of cards transitioned. Each flip is a conditional
// update, so a card concurrently blocked or already expired is skipped
// rather than overwritten. Finding nothing to expire is not an error.
func (s *SweeperSvc) Run(ctx context.Context, now time.Time) (int, error) {
	s.logger.Info("Running job to update expired card statuses...")

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	expired, err := s.repos.Card.GetExpiredActive(ctx, today)
	if err != nil {
		return 0, err
	}

	if len(expired) == 0 {
		s.logger.Info("No expired cards found.")
		return 0, nil
	}

	count := 0
	for _, card := range expired {
		err := s.repos.Card.UpdateStatus(ctx, card.ID, models.CardStatusActive, models.CardStatusExpired)
		if err != nil {
			// A concurrent block or delete won the race; leave the card alone.
			switch errs.KindOf(err) {
			case errs.Conflict, errs.NotFound:
				s.logger.Infof("Skipping card %d: %v", card.ID, err)
				continue
			}
			return count, err
		}
		count++
	}

	s.logger.Infof("Successfully updated status for %d expired cards.", count)
	return count, nil
}
