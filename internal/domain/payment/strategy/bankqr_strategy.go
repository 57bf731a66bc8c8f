package strategy

import (
	"fmt"
	"net/url"
	"time"

	"resto_pay/internal/domain/payment/model"
	"resto_pay/internal/domain/payment/token"
	"resto_pay/internal/pkg/config"
)

// BankQRStrategy builds a VietQR-compatible transfer QR. The customer scans
// it in their banking app; the free-text bank-transfer webhook closes the
// loop by matching the token embedded in the transfer description.
type BankQRStrategy struct {
	parser  *token.Parser
	baseURL string
	expiry  time.Duration
}

func NewBankQRStrategy(parser *token.Parser) *BankQRStrategy {
	cfg := config.GlobalConfig.Payment
	return &BankQRStrategy{
		parser:  parser,
		baseURL: cfg.QRImageBaseURL,
		expiry:  time.Duration(cfg.QRExpiryMinutes) * time.Minute,
	}
}

func (s *BankQRStrategy) Method() string {
	return model.MethodBankQR
}

func (s *BankQRStrategy) Initiate(p *model.Payment, cfg *model.PaymentMethodConfig, customer model.CustomerInfo) (*model.Artifact, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, model.ErrMethodNotConfigured
	}
	bank, err := cfg.BankQRSettings()
	if err != nil {
		return nil, model.ErrMethodNotConfigured
	}

	tok := token.Generate(p.ID)
	content := s.parser.Content(tok)
	expiresAt := time.Now().Add(s.expiry)

	p.MatchToken = tok
	p.TransferContent = content
	p.ExpiresAt = &expiresAt

	// Banks transfer whole currency units; the QR amount is truncated the
	// same way the webhook amount comparison truncates.
	q := url.Values{}
	q.Set("amount", fmt.Sprintf("%d", int64(p.Amount)))
	q.Set("addInfo", content)
	q.Set("accountName", bank.AccountHolder)
	qrURL := fmt.Sprintf("%s/%s-%s-compact2.png?%s",
		s.baseURL, bank.BankBIN, bank.AccountNumber, q.Encode())

	return &model.Artifact{
		PaymentID:       p.ID,
		Method:          model.MethodBankQR,
		Amount:          p.Amount,
		QRImageURL:      qrURL,
		BankName:        bank.BankName,
		AccountNumber:   bank.AccountNumber,
		AccountHolder:   bank.AccountHolder,
		TransferContent: content,
		ExpiresAt:       &expiresAt,
	}, nil
}

var _ Strategy = (*BankQRStrategy)(nil)
