package model

import "errors"

// Reconciliation and initiation errors. Handlers map these onto HTTP statuses
// and business codes; everything here is terminal for the calling request.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrOrderAlreadyPaid    = errors.New("order already paid")
	ErrMethodUnsupported   = errors.New("unsupported payment method")
	ErrMethodNotConfigured = errors.New("payment method not configured for store")
	ErrAlreadyProcessed    = errors.New("payment already processed")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMalformedPayload    = errors.New("malformed webhook payload")
	ErrNotStoreStaff       = errors.New("caller is not staff of the owning store")
)
