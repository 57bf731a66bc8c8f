package strategy

import (
	"fmt"

	"resto_pay/internal/domain/payment/model"
)

// CashStrategy produces counter-payment instructions. No expiry, no external
// confirmation channel; only manual staff confirmation completes it.
type CashStrategy struct{}

func NewCashStrategy() *CashStrategy {
	return &CashStrategy{}
}

func (s *CashStrategy) Method() string {
	return model.MethodCash
}

func (s *CashStrategy) Initiate(p *model.Payment, cfg *model.PaymentMethodConfig, customer model.CustomerInfo) (*model.Artifact, error) {
	return &model.Artifact{
		PaymentID:    p.ID,
		Method:       model.MethodCash,
		Amount:       p.Amount,
		Instructions: fmt.Sprintf("Please pay %.0f at the counter. Staff will confirm your payment.", p.Amount),
	}, nil
}

var _ Strategy = (*CashStrategy)(nil)
