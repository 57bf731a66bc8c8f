package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	orderModel "resto_pay/internal/domain/order/model"
	orderRepo "resto_pay/internal/domain/order/repository"
	"resto_pay/internal/domain/payment/model"
	"resto_pay/internal/domain/payment/repository"
	"resto_pay/internal/domain/payment/strategy"
	"resto_pay/internal/domain/payment/token"
	subModel "resto_pay/internal/domain/subscription/model"
	subService "resto_pay/internal/domain/subscription/service"
	"resto_pay/internal/pkg/config"
	"resto_pay/pkg/logger"
	"resto_pay/pkg/metrics"
	"resto_pay/pkg/signature"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Webhook outcomes. All of these are acknowledged with HTTP 200 so the sender
// does not retry on business results; only transport and signature failures
// surface as HTTP errors.
const (
	OutcomePaid           = "paid"
	OutcomeAlreadyPaid    = "already_paid"
	OutcomeIgnored        = "ignored"
	OutcomeNotFound       = "not_found"
	OutcomeAmountMismatch = "amount_mismatch"
)

// Reconciliation sources, used for metrics labels.
const (
	sourcePoll        = "poll"
	sourceWebhook     = "webhook"
	sourceBankWebhook = "bank_webhook"
	sourceConfirm     = "confirm"
)

// AggregatorWebhook is the structured gateway notification.
type AggregatorWebhook struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		OrderCode     int64   `json:"orderCode"`
		Amount        float64 `json:"amount"`
		Status        string  `json:"status"`
		TransactionID string  `json:"transactionId"`
	} `json:"data"`
}

// BankTransferWebhook is the free-text bank notification. Description is an
// arbitrary transfer note that may embed a match token anywhere.
type BankTransferWebhook struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// WebhookResult is the business outcome reported back to the sender.
type WebhookResult struct {
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}

// PollResult is the customer-facing payment state.
type PollResult struct {
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// ConfirmResult reports a manual confirmation.
type ConfirmResult struct {
	Status      string `json:"status"`
	ConfirmedBy string `json:"confirmed_by"`
}

type PaymentService interface {
	RegisterStrategy(s strategy.Strategy)
	Initiate(orderID, method string, customer model.CustomerInfo) (*model.Artifact, error)
	Get(paymentID, storeID string) (*model.Payment, error)
	Poll(paymentID string) (*PollResult, error)
	Confirm(paymentID, staffID, storeID string) (*ConfirmResult, error)
	HandleAggregatorWebhook(raw []byte, sig string) (*WebhookResult, error)
	HandleBankTransferWebhook(evt BankTransferWebhook) (*WebhookResult, error)
}

type paymentService struct {
	repo       repository.PaymentRepository
	configs    repository.MethodConfigRepository
	orders     orderRepo.OrderRepository
	tokens     repository.TokenCache
	subs       subService.SubscriptionService
	strategies map[string]strategy.Strategy
	parser     *token.Parser
	collector  *metrics.MetricsCollector
}

func NewPaymentService(
	repo repository.PaymentRepository,
	configs repository.MethodConfigRepository,
	orders orderRepo.OrderRepository,
	tokens repository.TokenCache,
	subs subService.SubscriptionService,
	parser *token.Parser,
) PaymentService {
	return &paymentService{
		repo:       repo,
		configs:    configs,
		orders:     orders,
		tokens:     tokens,
		subs:       subs,
		strategies: make(map[string]strategy.Strategy),
		parser:     parser,
		collector:  metrics.GetGlobalCollector(),
	}
}

func (s *paymentService) RegisterStrategy(strat strategy.Strategy) {
	s.strategies[strat.Method()] = strat
}

func (s *paymentService) Initiate(orderID, method string, customer model.CustomerInfo) (*model.Artifact, error) {
	strat, ok := s.strategies[method]
	if !ok {
		return nil, model.ErrMethodUnsupported
	}

	order, err := s.orders.GetByID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == orderModel.PaymentStatusPaid {
		return nil, model.ErrOrderAlreadyPaid
	}

	// Method config is owned by store settings and re-read for every
	// initiation; edits there must take effect without a restart.
	cfg, err := s.configs.Get(order.StoreID, method)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = nil
	} else if err != nil {
		return nil, err
	}
	if method != model.MethodCash && (cfg == nil || !cfg.Enabled) {
		return nil, model.ErrMethodNotConfigured
	}

	p := &model.Payment{
		StoreID: order.StoreID,
		OrderID: order.ID,
		Amount:  order.TotalAmount,
		Method:  method,
		Status:  model.StatusPending,
	}
	p.ID = uuid.New().String()

	// The row must exist before any outbound gateway call: a checkout session
	// created upstream of a failed insert would send webhooks for an order
	// code no record can match.
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}

	artifact, err := strat.Initiate(p, cfg, customer)
	if err != nil {
		if ferr := s.repo.MarkFailed(p.ID); ferr != nil && logger.Log != nil {
			logger.Log.Error("failed to abandon payment after initiation error",
				zap.String("payment_id", p.ID), zap.Error(ferr))
		}
		return nil, err
	}

	if err := s.repo.SaveArtifact(p); err != nil {
		return nil, err
	}

	if err := s.orders.MarkProcessing(order.ID); err != nil && logger.Log != nil {
		logger.Log.Error("failed to mark order processing",
			zap.String("order_id", order.ID), zap.Error(err))
	}

	if p.MatchToken != "" && p.ExpiresAt != nil {
		// Webhook correlation fast path; best effort, DB lookup covers misses.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.tokens.Set(ctx, p.MatchToken, p.ID, time.Until(*p.ExpiresAt)); err != nil && logger.Log != nil {
			logger.Log.Warn("failed to index match token", zap.String("token", p.MatchToken), zap.Error(err))
		}
	}

	s.collector.RecordPaymentInitiated(method)
	return artifact, nil
}

func (s *paymentService) Get(paymentID, storeID string) (*model.Payment, error) {
	p, err := s.repo.GetByID(paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	// Scoped to the caller's store; existence elsewhere is not disclosed.
	if p.StoreID != storeID {
		return nil, model.ErrPaymentNotFound
	}
	return p, nil
}

// Poll lazily reconciles a pending payment. It never invents a paid outcome:
// expiry is derived from the clock, paid only from state already committed by
// a webhook or confirmation (observed via the parent order).
func (s *paymentService) Poll(paymentID string) (*PollResult, error) {
	p, err := s.repo.GetByID(paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.Status != model.StatusPending {
		return &PollResult{Status: p.Status, PaidAt: p.PaidAt}, nil
	}

	if p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt) {
		won, err := s.repo.TransitionToExpired(p.ID)
		if err != nil {
			return nil, err
		}
		if won {
			s.collector.RecordReconciliation(sourcePoll, model.StatusExpired)
			return &PollResult{Status: model.StatusExpired}, nil
		}
		// Raced a webhook or confirm; report whatever won.
		return s.readBack(p.ID)
	}

	// A webhook may have marked the order paid between this payment's
	// creation and now (e.g. against an earlier payment attempt). Adopt it.
	order, err := s.orders.GetByID(p.OrderID)
	if err == nil && order.PaymentStatus == orderModel.PaymentStatusPaid {
		now := time.Now()
		won, terr := s.repo.TransitionToPaid(p, now.Format("20060102150405"), now, "")
		if terr != nil {
			return nil, terr
		}
		if won {
			s.collector.RecordReconciliation(sourcePoll, model.StatusPaid)
			return &PollResult{Status: model.StatusPaid, PaidAt: &now}, nil
		}
		return s.readBack(p.ID)
	}

	return &PollResult{Status: p.Status}, nil
}

func (s *paymentService) readBack(paymentID string) (*PollResult, error) {
	p, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	return &PollResult{Status: p.Status, PaidAt: p.PaidAt}, nil
}

func (s *paymentService) Confirm(paymentID, staffID, storeID string) (*ConfirmResult, error) {
	p, err := s.repo.GetByID(paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.StoreID != storeID {
		return nil, model.ErrNotStoreStaff
	}
	if p.Status != model.StatusPending {
		// Terminal payments are immutable; an expired QR payment is not
		// confirmable either, staff must initiate a fresh cash payment.
		return nil, model.ErrAlreadyProcessed
	}

	now := time.Now()
	won, err := s.repo.TransitionToPaid(p, now.Format("20060102150405"), now, staffID)
	if err != nil {
		return nil, err
	}
	if won {
		s.collector.RecordReconciliation(sourceConfirm, model.StatusPaid)
		return &ConfirmResult{Status: model.StatusPaid, ConfirmedBy: staffID}, nil
	}

	// Lost the race. If the winner reached paid this is a no-op success;
	// anything else is a conflict for the caller.
	cur, err := s.repo.GetByID(p.ID)
	if err != nil {
		return nil, err
	}
	if cur.Status == model.StatusPaid {
		return &ConfirmResult{Status: model.StatusPaid, ConfirmedBy: cur.ConfirmedBy}, nil
	}
	return nil, model.ErrAlreadyProcessed
}

func (s *paymentService) HandleAggregatorWebhook(raw []byte, sig string) (*WebhookResult, error) {
	secret := config.GlobalConfig.Webhook.AggregatorSecret
	if secret != "" && sig != "" {
		if !signature.Verify(raw, sig, secret) {
			return nil, model.ErrInvalidSignature
		}
	}

	var evt AggregatorWebhook
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	if evt.Code != "00" {
		return &WebhookResult{Outcome: OutcomeIgnored, Message: "non-success response code"}, nil
	}
	if evt.Data.Status != "PAID" {
		return &WebhookResult{Outcome: OutcomeIgnored, Message: "status not paid"}, nil
	}

	now := time.Now()
	txnID := evt.Data.TransactionID
	if txnID == "" {
		txnID = now.Format("20060102150405")
	}

	// Subscription payments share the aggregator and are resolved first.
	sp, err := s.subs.FindPaymentByOrderCode(evt.Data.OrderCode)
	if err != nil {
		return nil, err
	}
	if sp != nil {
		if sp.Status == subModel.PaymentStatusPaid {
			return &WebhookResult{Outcome: OutcomeAlreadyPaid}, nil
		}
		if _, err := s.subs.ActivateFromWebhook(sp, txnID, now); err != nil {
			return nil, err
		}
		s.collector.RecordReconciliation(sourceWebhook, model.StatusPaid)
		return &WebhookResult{Outcome: OutcomePaid, Message: "subscription activated"}, nil
	}

	p, err := s.repo.GetByOrderCode(evt.Data.OrderCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Acknowledged so the sender stops retrying a code we will never know.
		return &WebhookResult{Outcome: OutcomeNotFound, Message: "no matching payment"}, nil
	}
	if err != nil {
		return nil, err
	}

	if p.Status == model.StatusPaid {
		return &WebhookResult{Outcome: OutcomeAlreadyPaid}, nil
	}

	won, err := s.repo.TransitionToPaid(p, txnID, now, "")
	if err != nil {
		return nil, err
	}
	if won {
		s.collector.RecordReconciliation(sourceWebhook, model.StatusPaid)
		return &WebhookResult{Outcome: OutcomePaid}, nil
	}
	return s.reportLostRace(p.ID)
}

func (s *paymentService) HandleBankTransferWebhook(evt BankTransferWebhook) (*WebhookResult, error) {
	tok, ok := s.parser.Extract(evt.Description)
	if !ok {
		return &WebhookResult{Outcome: OutcomeIgnored, Message: "no match token in description"}, nil
	}

	p, err := s.resolveByToken(tok)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &WebhookResult{Outcome: OutcomeNotFound, Message: "no matching pending payment"}, nil
	}

	if p.Status == model.StatusPaid {
		return &WebhookResult{Outcome: OutcomeAlreadyPaid}, nil
	}
	if p.Status != model.StatusPending {
		return &WebhookResult{Outcome: OutcomeNotFound, Message: "no matching pending payment"}, nil
	}

	if p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt) {
		if won, err := s.repo.TransitionToExpired(p.ID); err != nil {
			return nil, err
		} else if won {
			s.collector.RecordReconciliation(sourceBankWebhook, model.StatusExpired)
		}
		return &WebhookResult{Outcome: OutcomeIgnored, Message: "payment expired"}, nil
	}

	// Banks report whole units; compare truncated the same way the QR was
	// generated. A mismatch leaves the payment pending so a corrected
	// notification or manual confirm can still complete it.
	if int64(evt.Amount) != int64(p.Amount) {
		if logger.Log != nil {
			logger.Log.Warn("bank transfer amount mismatch",
				zap.String("payment_id", p.ID),
				zap.Float64("expected", p.Amount),
				zap.Float64("received", evt.Amount))
		}
		return &WebhookResult{
			Outcome: OutcomeAmountMismatch,
			Message: fmt.Sprintf("expected %d, received %d", int64(p.Amount), int64(evt.Amount)),
		}, nil
	}

	now := time.Now()
	txnID := evt.ID
	if txnID == "" {
		txnID = now.Format("20060102150405")
	}

	won, err := s.repo.TransitionToPaid(p, txnID, now, "")
	if err != nil {
		return nil, err
	}
	if won {
		s.collector.RecordReconciliation(sourceBankWebhook, model.StatusPaid)
		return &WebhookResult{Outcome: OutcomePaid}, nil
	}
	return s.reportLostRace(p.ID)
}

// resolveByToken tries the redis token index first and falls back to the
// repository. Returns nil when nothing matches.
func (s *paymentService) resolveByToken(tok string) (*model.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if id, err := s.tokens.Get(ctx, tok); err == nil && id != "" {
		p, err := s.repo.GetByID(id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	p, err := s.repo.FindPendingBankQRByToken(tok)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// reportLostRace re-reads a payment after a failed conditional update. A
// concurrent reconciler that reached paid makes this delivery an idempotent
// success; any other terminal state is only acknowledged.
func (s *paymentService) reportLostRace(paymentID string) (*WebhookResult, error) {
	cur, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if cur.Status == model.StatusPaid {
		return &WebhookResult{Outcome: OutcomeAlreadyPaid}, nil
	}
	return &WebhookResult{Outcome: OutcomeIgnored, Message: "payment " + cur.Status}, nil
}
