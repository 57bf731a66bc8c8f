package strategy

import (
	"resto_pay/internal/domain/payment/model"
)

// Strategy generates the method-specific payment artifact at initiation.
type Strategy interface {
	// Method returns the payment method this strategy serves.
	Method() string

	// Initiate fills method-specific fields on the payment (token, transfer
	// content, order code, expiry) and builds the client artifact. cfg is the
	// store's method configuration; nil for methods that need none.
	Initiate(p *model.Payment, cfg *model.PaymentMethodConfig, customer model.CustomerInfo) (*model.Artifact, error)
}
