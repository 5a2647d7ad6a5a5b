package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/substream-labs/ms-go-recurring-payments/app/entity"
	"github.com/substream-labs/ms-go-recurring-payments/app/factory"
	"github.com/substream-labs/ms-go-recurring-payments/app/ledger"
	"github.com/substream-labs/ms-go-recurring-payments/app/repository"
	"github.com/substream-labs/ms-go-recurring-payments/app/schedule"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
	"github.com/substream-labs/ms-go-recurring-payments/config"
)

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	UpdateStatus(ctx context.Context, id, subscriberAddress, status string, updatedAt time.Time) error
	AdvanceSchedule(ctx context.Context, id string, nextPaymentAt, updatedAt time.Time) error
	ListBySubscriber(ctx context.Context, subscriberAddress string) ([]*entity.Subscription, error)
	ListDue(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
}

type paymentRecorder interface {
	RecordPayment(ctx context.Context, subscriberAddress, creatorAddress string, paidAt time.Time) error
}

type planIDLister interface {
	ListIDsByCreator(ctx context.Context, creatorAddress string) ([]string, error)
}

type activityAppender interface {
	Append(ctx context.Context, entry *entity.ActivityEntry) error
}

// chargeLedger is the slice of the ledger the due-charge batch needs: two
// side-effect-free reads and the charge itself.
type chargeLedger interface {
	BalanceOf(ctx context.Context, address string) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender string) (*big.Int, error)
	Charge(ctx context.Context, from, to string, amount *big.Int) (ledger.Tx, error)
}

type SubscriptionService struct {
	subscriptionRepo subscriptionRepository
	paymentRecorder  paymentRecorder
	planIDs          planIDLister
	activity         activityAppender
	ledger           chargeLedger
	cfg              config.LedgerConfig
	logger           logrus.FieldLogger
}

func NewSubscriptionService(
	subscriptionRepo subscriptionRepository,
	paymentRecorder paymentRecorder,
	planIDs planIDLister,
	activity activityAppender,
	chargeLedger chargeLedger,
	cfg config.LedgerConfig,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		paymentRecorder:  paymentRecorder,
		planIDs:          planIDs,
		activity:         activity,
		ledger:           chargeLedger,
		cfg:              cfg,
		logger:           factory.NewModuleLogger("subscription-service"),
	}
}

// Create validates the request, computes the first payment instant from the
// frequency and inserts the record as active. The first next_payment_at is one
// full period after creation, so it is always past the created timestamp.
func (s *SubscriptionService) Create(ctx context.Context, req *types.CreateSubscriptionRequest) (*entity.Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	frequency, err := schedule.ParseFrequency(req.Frequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	now := time.Now().UTC()
	subscription := &entity.Subscription{
		ID:                uuid.NewString(),
		SubscriberAddress: req.UserAddress,
		RecipientAddress:  req.RecipientAddress,
		TokenAmount:       req.TokenAmount,
		TokenSymbol:       req.TokenSymbol,
		Frequency:         string(frequency),
		NextPaymentAt:     schedule.Next(now, frequency),
		Status:            entity.SubscriptionStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, err
	}

	return subscription, nil
}

// UpdateStatus mutates only rows owned by the requesting subscriber. The
// repository filters on (id AND subscriber) in a single statement, so a wrong
// owner surfaces exactly like a missing row.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, req *types.UpdateSubscriptionRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	err := s.subscriptionRepo.UpdateStatus(ctx, req.SubscriptionID, req.UserAddress, req.Status, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func (s *SubscriptionService) ListForSubscriber(ctx context.Context, req *types.ListSubscriptionsRequest) ([]*entity.Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	return s.subscriptionRepo.ListBySubscriber(ctx, req.UserAddress)
}

// RunDueChargesBatch charges every active subscription whose next_payment_at
// has passed. Reads come first; the transfer is only submitted when balance
// and allowance both cover the amount, and the schedule is advanced only after
// the transfer is confirmed. Failed items are skipped without retry; the next
// batch run picks them up again.
func (s *SubscriptionService) RunDueChargesBatch(ctx context.Context) error {
	now := time.Now().UTC()
	items, err := s.subscriptionRepo.ListDue(ctx, now)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.chargeSubscription(ctx, item); err != nil {
			s.logger.WithError(err).WithField("subscription_id", item.ID).Warn("Charge skipped")
		}
	}

	return nil
}

func (s *SubscriptionService) chargeSubscription(ctx context.Context, item *entity.Subscription) error {
	frequency, err := schedule.ParseFrequency(item.Frequency)
	if err != nil {
		return fmt.Errorf("stored frequency %q: %w", item.Frequency, err)
	}

	amount := big.NewInt(item.TokenAmount)

	balance, err := s.ledger.BalanceOf(ctx, item.SubscriberAddress)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: balance %s below charge %s", ErrInsufficientFunds, balance, amount)
	}

	allowance, err := s.ledger.Allowance(ctx, item.SubscriberAddress, s.cfg.WalletAddress)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: allowance %s below charge %s", ErrAuthorizationDenied, allowance, amount)
	}

	tx, err := s.ledger.Charge(ctx, item.SubscriberAddress, item.RecipientAddress, amount)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAuthorizationDenied, err.Error())
	}
	if err := tx.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrAuthorizationDenied, err.Error())
	}

	now := time.Now().UTC()
	next := schedule.Next(item.NextPaymentAt, frequency)
	if err := s.subscriptionRepo.AdvanceSchedule(ctx, item.ID, next, now); err != nil {
		return err
	}

	if err := s.paymentRecorder.RecordPayment(ctx, item.SubscriberAddress, item.RecipientAddress, now); err != nil {
		s.logger.WithError(err).WithField("subscription_id", item.ID).Warn("Failed to stamp plan payment")
	}
	s.appendPaymentActivity(ctx, item)

	s.logger.WithFields(logrus.Fields{
		"subscription_id": item.ID,
		"tx_hash":         tx.Hash(),
		"next_payment_at": next.Format(time.RFC3339),
	}).Info("Subscription charged")

	return nil
}

func (s *SubscriptionService) appendPaymentActivity(ctx context.Context, item *entity.Subscription) {
	planIDs, err := s.planIDs.ListIDsByCreator(ctx, item.RecipientAddress)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to resolve plans for payment activity")
		return
	}

	now := time.Now().UTC()
	for _, planID := range planIDs {
		entry := &entity.ActivityEntry{
			PlanID:    planID,
			Action:    entity.ActivityActionPaymentRecorded,
			Detail:    item.SubscriberAddress,
			CreatedAt: now,
		}
		if err := s.activity.Append(ctx, entry); err != nil {
			s.logger.WithError(err).WithField("plan_id", planID).Warn("Failed to append payment activity")
		}
	}
}
