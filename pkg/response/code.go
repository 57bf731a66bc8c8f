package response

// Business status codes.
const (
	CodeSuccess = 0
	CodeError   = 1

	// Order module errors 100xx
	ErrOrderNotFound = 10001
	ErrOrderPaid     = 10002

	// Payment module errors 300xx
	ErrPaymentNotFound      = 30001
	ErrMethodUnsupported    = 30002
	ErrMethodNotConfigured  = 30003
	ErrAlreadyProcessed     = 30004
	ErrAmountMismatch       = 30005
	ErrSignatureInvalid     = 30006
	ErrNoMatchingPayment    = 30007
	ErrWebhookIgnored       = 30008

	// Auth errors 400xx
	ErrTokenInvalid = 40001
	ErrNoPermission = 40002

	// System errors 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
