package service

import (
	"errors"
	"time"

	"resto_pay/internal/domain/subscription/model"
	"resto_pay/internal/domain/subscription/repository"

	"gorm.io/gorm"
)

// Subscription plans are billed monthly; activation extends 30 days.
const subscriptionPeriod = 30 * 24 * time.Hour

// SubscriptionService resolves aggregator webhooks that settle subscription
// payments instead of orders.
type SubscriptionService interface {
	// FindPaymentByOrderCode returns the subscription payment for an external
	// order code, or (nil, nil) when none exists.
	FindPaymentByOrderCode(orderCode int64) (*model.SubscriptionPayment, error)

	// ActivateFromWebhook marks the payment paid and activates the
	// subscription. Idempotent: a lost race is not an error.
	ActivateFromWebhook(sp *model.SubscriptionPayment, transactionID string, paidAt time.Time) (won bool, err error)
}

type subscriptionService struct {
	repo repository.SubscriptionRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{repo: repo}
}

func (s *subscriptionService) FindPaymentByOrderCode(orderCode int64) (*model.SubscriptionPayment, error) {
	sp, err := s.repo.GetPaymentByOrderCode(orderCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *subscriptionService) ActivateFromWebhook(sp *model.SubscriptionPayment, transactionID string, paidAt time.Time) (bool, error) {
	return s.repo.MarkPaidAndActivate(sp, transactionID, paidAt, subscriptionPeriod)
}
